package console

import (
	"encoding/json"
	"time"

	"github.com/golang/glog"
)


// Subscriber is the part of the push transport a binding needs.
type Subscriber interface {
	Subscribe(event string, handler PushHandler) func()
}


// Binding is the per-entity-type context constructed once at startup:
// one view store, one rendering surface, one reconciler, subscribed to
// the entity's three push topics. There are no package globals; a page
// holds one binding per table.
type Binding[T any, R interface {
	Record
	*T
}] struct {
	store      *ViewStore[R]
	view       View[R]
	reconciler *Reconciler[R]
	unsubs     []func()
}

func NewBinding[T any, R interface {
	Record
	*T
}](subscriber Subscriber, entity string, view View[R]) *Binding[T, R] {
	store := NewViewStore[R]()
	binding := &Binding[T, R]{
		store:      store,
		view:       view,
		reconciler: NewReconciler[R](store, view),
	}
	binding.unsubs = []func(){
		subscriber.Subscribe("new_"+entity, binding.created),
		subscriber.Subscribe("edit_"+entity, binding.updated),
		subscriber.Subscribe("remove_"+entity, binding.removed),
	}
	return binding
}

func BindEvents(subscriber Subscriber, view View[*Event]) *Binding[Event, *Event] {
	return NewBinding[Event](subscriber, "event", view)
}

func BindEncounters(subscriber Subscriber, view View[*Encounter]) *Binding[Encounter, *Encounter] {
	return NewBinding[Encounter](subscriber, "encounter", view)
}

func BindObservations(subscriber Subscriber, view View[*Observation]) *Binding[Observation, *Observation] {
	return NewBinding[Observation](subscriber, "observation", view)
}

func BindParticipants(subscriber Subscriber, view View[*Participant]) *Binding[Participant, *Participant] {
	return NewBinding[Participant](subscriber, "participant", view)
}

// Load seeds the binding from the initial full fetch.
func (self *Binding[T, R]) Load(records []R) {
	self.store.Load(records)
	self.view.Reset(records)
	self.view.Redraw()
}

func (self *Binding[T, R]) Store() *ViewStore[R] {
	return self.store
}

func (self *Binding[T, R]) Apply(notice Notice[R]) {
	self.reconciler.Apply(notice)
}

// Redecorate re-evaluates staleness for every row at the given instant
// and pushes the tiers to the view. Call it on every render pass; the
// tier is a pure function of the record and the clock, so rows escalate
// between notices without any push traffic.
func (self *Binding[T, R]) Redecorate(now time.Time) {
	for _, record := range self.store.Records() {
		s, ok := any(record).(Stalenessable)
		if !ok {
			// this entity type has no milestones
			return
		}
		self.view.Decorate(record.RecordId(), ClassifyStaleness(s.Milestones(), now))
	}
	self.view.Redraw()
}

func (self *Binding[T, R]) Close() {
	for _, unsub := range self.unsubs {
		unsub()
	}
}

func (self *Binding[T, R]) created(data json.RawMessage) {
	record := R(new(T))
	if err := json.Unmarshal(data, record); err != nil {
		glog.Infof("[rc]bad created payload = %s\n", err)
		return
	}
	self.reconciler.Apply(CreatedNotice[R](record))
}

func (self *Binding[T, R]) updated(data json.RawMessage) {
	record := R(new(T))
	if err := json.Unmarshal(data, record); err != nil {
		glog.Infof("[rc]bad updated payload = %s\n", err)
		return
	}
	self.reconciler.Apply(UpdatedNotice[R](record))
}

func (self *Binding[T, R]) removed(data json.RawMessage) {
	var ref struct {
		Id Id `json:"id"`
	}
	if err := json.Unmarshal(data, &ref); err != nil {
		glog.Infof("[rc]bad removed payload = %s\n", err)
		return
	}
	self.reconciler.Apply(RemovedNotice[R](ref.Id))
}


// LookupBinding keeps a lookup table (agencies, assignments,
// observation categories) loaded. The backend announces changes with a
// bare <entity>_update event carrying no payload; the whole table is
// re-fetched.
type LookupBinding[T any, R interface {
	Record
	*T
}] struct {
	store *ViewStore[R]
	list  func() ([]R, error)
	unsub func()
}

func NewLookupBinding[T any, R interface {
	Record
	*T
}](subscriber Subscriber, entity string, list func() ([]R, error)) *LookupBinding[T, R] {
	binding := &LookupBinding[T, R]{
		store: NewViewStore[R](),
		list:  list,
	}
	binding.unsub = subscriber.Subscribe(entity+"_update", binding.refresh)
	return binding
}

func BindAgencies(subscriber Subscriber, list func() ([]*Agency, error)) *LookupBinding[Agency, *Agency] {
	return NewLookupBinding[Agency](subscriber, "agency", list)
}

func BindAssignments(subscriber Subscriber, list func() ([]*Assignment, error)) *LookupBinding[Assignment, *Assignment] {
	return NewLookupBinding[Assignment](subscriber, "assignment", list)
}

func BindObservationCategories(subscriber Subscriber, list func() ([]*ObservationCategory, error)) *LookupBinding[ObservationCategory, *ObservationCategory] {
	return NewLookupBinding[ObservationCategory](subscriber, "observation_category", list)
}

func (self *LookupBinding[T, R]) Store() *ViewStore[R] {
	return self.store
}

// Reload fetches the table now. Also used for the initial load.
func (self *LookupBinding[T, R]) Reload() error {
	records, err := self.list()
	if err != nil {
		return err
	}
	self.store.Load(records)
	return nil
}

func (self *LookupBinding[T, R]) Close() {
	self.unsub()
}

// the fetch runs off the dispatch goroutine so a slow list call cannot
// stall notice delivery for other tables
func (self *LookupBinding[T, R]) refresh(data json.RawMessage) {
	go func() {
		if err := self.Reload(); err != nil {
			glog.Infof("[rc]lookup reload error = %s\n", err)
		}
	}()
}
