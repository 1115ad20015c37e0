package console

import (
	"encoding/json"
	"reflect"
)


// Fields is the submit-payload shape for create and edit actions: field
// name to scalar value, the way the editor form posts them.
type Fields map[string]any

// RecordFields derives the Fields view of a record through its JSON
// encoding, so that edit diffing compares the same value domain the
// form submits.
func RecordFields(record Record) (Fields, error) {
	b, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var fields Fields
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}


// EditSession is the snapshot of a record's field values captured when
// the record is opened for editing. It exists only to compute the diff
// against the submitted values; discard it after submit or cancel.
type EditSession struct {
	snapshot Fields
}

func OpenEdit(record Record) (*EditSession, error) {
	snapshot, err := RecordFields(record)
	if err != nil {
		return nil, err
	}
	return &EditSession{
		snapshot: snapshot,
	}, nil
}

func OpenEditFields(snapshot Fields) *EditSession {
	return &EditSession{
		snapshot: snapshot,
	}
}

// Diff returns only the submitted fields whose value differs from the
// snapshot. Unchanged fields stay out of the edit payload so that a
// concurrent edit of an untouched field is not clobbered (best effort,
// not a merge).
func (self *EditSession) Diff(submitted Fields) Fields {
	out := Fields{}
	for key, value := range submitted {
		snapshotValue, ok := self.snapshot[key]
		if ok && equalFieldValue(value, snapshotValue) {
			continue
		}
		out[key] = value
	}
	return out
}


// PruneEmpty returns the fields without null and empty string values.
// Used for create actions so that placeholder empties do not overwrite
// server-side defaults.
func PruneEmpty(fields Fields) Fields {
	out := Fields{}
	for key, value := range fields {
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		out[key] = value
	}
	return out
}


// strict equality over the scalar field domain. values that cannot be
// compared count as changed.
func equalFieldValue(a any, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return false
	}
	return a == b
}
