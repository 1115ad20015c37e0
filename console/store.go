package console

import (
	"sync"

	"golang.org/x/exp/slices"
)


// ViewStore is the client-held copy of one entity type's record set,
// backing a single rendering surface. Ordered, and key-unique: at most
// one record per id at any time.
//
// All mutation goes through the owning reconciler or a full reload.
// Operations are safe to call from the push dispatch goroutine and the
// render path concurrently.
type ViewStore[R Record] struct {
	mutex   sync.Mutex
	records []R
	index   map[Id]int
}

func NewViewStore[R Record]() *ViewStore[R] {
	return &ViewStore[R]{
		index: map[Id]int{},
	}
}

// Load replaces the entire collection. Used for the initial fetch and
// for lookup refreshes.
func (self *ViewStore[R]) Load(records []R) {
	self.mutex.Lock()
	defer self.mutex.Unlock()

	self.records = slices.Clone(records)
	self.index = make(map[Id]int, len(records))
	for i, record := range self.records {
		self.index[record.RecordId()] = i
	}
}

// Upsert replaces the record with the same id in place, keeping its
// position, or appends when the id is new. Returns true when appended.
// Applying the same upsert twice yields the same state as applying it
// once.
func (self *ViewStore[R]) Upsert(record R) bool {
	self.mutex.Lock()
	defer self.mutex.Unlock()

	key := record.RecordId()
	if i, ok := self.index[key]; ok {
		self.records[i] = record
		return false
	}
	self.index[key] = len(self.records)
	self.records = append(self.records, record)
	return true
}

// Remove deletes the record with the given key. Removing an absent key
// is a silent no-op, since push delivery is at-least-once and a remove
// may arrive after the row is already gone. Returns true when a record
// was deleted.
func (self *ViewStore[R]) Remove(key Id) bool {
	self.mutex.Lock()
	defer self.mutex.Unlock()

	i, ok := self.index[key]
	if !ok {
		return false
	}
	self.records = slices.Delete(self.records, i, i+1)
	delete(self.index, key)
	for j := i; j < len(self.records); j += 1 {
		self.index[self.records[j].RecordId()] = j
	}
	return true
}

func (self *ViewStore[R]) Contains(key Id) bool {
	self.mutex.Lock()
	defer self.mutex.Unlock()

	_, ok := self.index[key]
	return ok
}

func (self *ViewStore[R]) Get(key Id) (R, bool) {
	self.mutex.Lock()
	defer self.mutex.Unlock()

	if i, ok := self.index[key]; ok {
		return self.records[i], true
	}
	var empty R
	return empty, false
}

// Records returns a copy of the ordered collection.
func (self *ViewStore[R]) Records() []R {
	self.mutex.Lock()
	defer self.mutex.Unlock()

	return slices.Clone(self.records)
}

func (self *ViewStore[R]) Len() int {
	self.mutex.Lock()
	defer self.mutex.Unlock()

	return len(self.records)
}
