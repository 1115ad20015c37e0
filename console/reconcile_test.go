package console

import (
	"testing"

	"github.com/go-playground/assert/v2"

	"golang.org/x/exp/slices"
)


// in-memory rendering surface for tests
type testView[R Record] struct {
	rows    []R
	tiers   map[Id]Tier
	redraws int
}

func newTestView[R Record]() *testView[R] {
	return &testView[R]{
		tiers: map[Id]Tier{},
	}
}

func (self *testView[R]) Reset(records []R) {
	self.rows = slices.Clone(records)
}

func (self *testView[R]) Insert(record R) {
	self.rows = append(self.rows, record)
}

func (self *testView[R]) Replace(record R) {
	for i, row := range self.rows {
		if row.RecordId() == record.RecordId() {
			self.rows[i] = record
			return
		}
	}
}

func (self *testView[R]) Delete(key Id) {
	for i, row := range self.rows {
		if row.RecordId() == key {
			self.rows = slices.Delete(self.rows, i, i+1)
			return
		}
	}
}

func (self *testView[R]) Redraw() {
	self.redraws += 1
}

func (self *testView[R]) Decorate(key Id, tier Tier) {
	self.tiers[key] = tier
}


func TestReconcilerCreated(t *testing.T) {
	store := NewViewStore[*Event]()
	view := newTestView[*Event]()
	reconciler := NewReconciler[*Event](store, view)

	a := &Event{Id: NewId(), Location: "mile 3"}
	reconciler.Apply(CreatedNotice(a))

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 1, len(view.rows))

	// at-least-once delivery: a duplicate create must not add a row
	reconciler.Apply(CreatedNotice(a))

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 1, len(view.rows))

	// a create for a key already present from the initial load replaces
	a2 := &Event{Id: a.Id, Location: "mile 4"}
	reconciler.Apply(CreatedNotice(a2))

	assert.Equal(t, 1, len(view.rows))
	assert.Equal(t, "mile 4", view.rows[0].Location)
}

func TestReconcilerUpdated(t *testing.T) {
	store := NewViewStore[*Event]()
	view := newTestView[*Event]()
	reconciler := NewReconciler[*Event](store, view)

	// an update for an unknown key inserts instead of erroring
	a := &Event{Id: NewId(), Location: "mile 3"}
	reconciler.Apply(UpdatedNotice(a))

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 1, len(view.rows))

	a2 := &Event{Id: a.Id, Location: "mile 4"}
	reconciler.Apply(UpdatedNotice(a2))

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, "mile 4", view.rows[0].Location)
}

func TestReconcilerRemoved(t *testing.T) {
	store := NewViewStore[*Event]()
	view := newTestView[*Event]()
	reconciler := NewReconciler[*Event](store, view)

	a := &Event{Id: NewId()}
	reconciler.Apply(CreatedNotice(a))
	redraws := view.redraws

	reconciler.Apply(RemovedNotice[*Event](a.Id))

	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, len(view.rows))
	assert.Equal(t, redraws+1, view.redraws)

	// a duplicate remove is silent and does not redraw
	reconciler.Apply(RemovedNotice[*Event](a.Id))

	assert.Equal(t, 0, store.Len())
	assert.Equal(t, redraws+1, view.redraws)
}

func TestReconcilerRemovedThenUpdated(t *testing.T) {
	store := NewViewStore[*Event]()
	view := newTestView[*Event]()
	reconciler := NewReconciler[*Event](store, view)

	a := &Event{Id: NewId(), Location: "mile 3"}
	reconciler.Apply(CreatedNotice(a))
	reconciler.Apply(RemovedNotice[*Event](a.Id))

	// no total order per key: an update after a remove resurrects the row
	a2 := &Event{Id: a.Id, Location: "mile 4"}
	reconciler.Apply(UpdatedNotice(a2))

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 1, len(view.rows))
	assert.Equal(t, "mile 4", view.rows[0].Location)
}
