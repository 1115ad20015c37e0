package console

import (
	"github.com/golang/glog"
)


type NoticeKind int

const (
	NoticeCreated NoticeKind = iota
	NoticeUpdated
	NoticeRemoved
)

func (self NoticeKind) String() string {
	switch self {
	case NoticeCreated:
		return "created"
	case NoticeUpdated:
		return "updated"
	case NoticeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Notice is one push notification decoded for an entity type. Created
// and updated carry the full record; removed carries at least the key.
type Notice[R Record] struct {
	Kind   NoticeKind
	Record R
	Key    Id
}

func CreatedNotice[R Record](record R) Notice[R] {
	return Notice[R]{
		Kind:   NoticeCreated,
		Record: record,
		Key:    record.RecordId(),
	}
}

func UpdatedNotice[R Record](record R) Notice[R] {
	return Notice[R]{
		Kind:   NoticeUpdated,
		Record: record,
		Key:    record.RecordId(),
	}
}

func RemovedNotice[R Record](key Id) Notice[R] {
	return Notice[R]{
		Kind: NoticeRemoved,
		Key:  key,
	}
}


// View is the rendering surface contract the reconciler drives. The
// library ships no widget; dashctl renders to the terminal and tests
// use a fake.
//
// Decorate applies a staleness tier to a row. Applying a tier replaces
// any previously applied tier for that row, including TierNone which
// clears it. Tiers never stack.
type View[R Record] interface {
	Reset(records []R)
	Insert(record R)
	Replace(record R)
	Delete(key Id)
	Redraw()
	Decorate(key Id, tier Tier)
}


// Reconciler applies push notices to a view store and mirrors the
// change onto the rendering surface. It holds no state of its own:
// delivery is at-least-once and unordered, so every rule below is an
// idempotency rule.
//
//   - created: routed through upsert. The initial full load can race a
//     create notice, and delivery can duplicate; a create for a known
//     key must never produce a second row.
//   - updated: upsert. An update for an unknown key inserts the record
//     (the initial load may still be in flight); self-healing, not an
//     error.
//   - removed: remove, a no-op when the key is already gone.
//
// Notices are applied in arrival order with no buffering. No total
// order per key is recovered: an update arriving after a remove for the
// same key resurrects the row. Accepted limitation.
type Reconciler[R Record] struct {
	store *ViewStore[R]
	view  View[R]
}

func NewReconciler[R Record](store *ViewStore[R], view View[R]) *Reconciler[R] {
	return &Reconciler[R]{
		store: store,
		view:  view,
	}
}

func (self *Reconciler[R]) Apply(notice Notice[R]) {
	switch notice.Kind {
	case NoticeCreated, NoticeUpdated:
		if self.store.Upsert(notice.Record) {
			self.view.Insert(notice.Record)
		} else {
			self.view.Replace(notice.Record)
		}
		self.view.Redraw()
	case NoticeRemoved:
		if self.store.Remove(notice.Key) {
			self.view.Delete(notice.Key)
			self.view.Redraw()
		}
	default:
		glog.Infof("[rc]drop notice kind = %d\n", notice.Kind)
	}
}
