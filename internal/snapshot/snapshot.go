package snapshot

import (
	"errors"
	"fmt"
)

// Atomicity is the server-asserted guarantee about how a field was read
// relative to concurrent producer-side writes.
type Atomicity string

const (
	AtomicityNone    Atomicity = "none"
	AtomicityAtomic  Atomicity = "atomic"
	AtomicitySeqlock Atomicity = "seqlock"
	AtomicityLocked  Atomicity = "locked"
)

// ErrFieldNotFound is returned by ObjectInfo.Get for unknown field names.
var ErrFieldNotFound = errors.New("field not found")

// FieldValue is one named value inside an observed object.
type FieldValue struct {
	Name      string
	Value     Value
	Atomicity Atomicity
}

// IsAtomic reports whether the field was read with a plain atomic load.
func (f FieldValue) IsAtomic() bool { return f.Atomicity == AtomicityAtomic }

// IsSeqlock reports whether the field was read under a seqlock.
func (f FieldValue) IsSeqlock() bool { return f.Atomicity == AtomicitySeqlock }

// IsLocked reports whether the field was read while holding a lock.
func (f FieldValue) IsLocked() bool { return f.Atomicity == AtomicityLocked }

// TypeInfo is static metadata about a producer-side type. TypeID is an
// identity assigned by the producer and need not survive producer restarts;
// Name is the stable lookup key.
type TypeInfo struct {
	Name       string
	TypeID     int64
	Size       int64
	FieldCount int
}

// ObjectInfo is one observed object instance with its current field values.
// Fields keep server order; field names are not guaranteed unique and every
// lookup resolves to the first match. Names are matched exactly — there is
// no dot-path traversal into nested values.
type ObjectInfo struct {
	Label    string
	TypeName string
	TypeID   int64
	Fields   []FieldValue
}

// Get returns the value of the named field, or ErrFieldNotFound.
func (o ObjectInfo) Get(name string) (Value, error) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f.Value, nil
		}
	}
	return Value{}, fmt.Errorf("field %q not found in object %q: %w", name, o.Label, ErrFieldNotFound)
}

// GetDefault returns the value of the named field, or def when absent.
func (o ObjectInfo) GetDefault(name string, def Value) Value {
	for _, f := range o.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return def
}

// Field returns the full field including its atomicity tag.
func (o ObjectInfo) Field(name string) (FieldValue, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldValue{}, false
}

// FieldNames returns all field names in stored order, duplicates included.
func (o ObjectInfo) FieldNames() []string {
	names := make([]string, len(o.Fields))
	for i, f := range o.Fields {
		names[i] = f.Name
	}
	return names
}

// ToMap flattens the fields to a name-to-value map. With duplicate names the
// first occurrence wins, so the result stays consistent with Get.
func (o ObjectInfo) ToMap() map[string]Value {
	out := make(map[string]Value, len(o.Fields))
	for _, f := range o.Fields {
		if _, exists := out[f.Name]; !exists {
			out[f.Name] = f.Value
		}
	}
	return out
}

// Snapshot is a point-in-time capture of a memglass session: the producer
// pid, a sequence number bumped on structural change, and all registered
// types and observed objects. A Snapshot is immutable once built — a new
// fetch builds a new one.
//
// Sequence is an opaque, non-decreasing token. It is compared for equality
// only; nothing assumes it advances by one.
type Snapshot struct {
	PID      int
	Sequence uint64
	Types    []TypeInfo
	Objects  []ObjectInfo
}

// Object finds an object by label. Labels are expected unique within one
// snapshot but not enforced; the first match wins.
func (s *Snapshot) Object(label string) (ObjectInfo, bool) {
	for _, obj := range s.Objects {
		if obj.Label == label {
			return obj, true
		}
	}
	return ObjectInfo{}, false
}

// ObjectsByType returns all objects of the given type, in snapshot order.
func (s *Snapshot) ObjectsByType(typeName string) []ObjectInfo {
	var out []ObjectInfo
	for _, obj := range s.Objects {
		if obj.TypeName == typeName {
			out = append(out, obj)
		}
	}
	return out
}

// Type finds type metadata by name. An object's TypeName is a soft
// reference: a missing descriptor is an absent lookup, not an error.
func (s *Snapshot) Type(name string) (TypeInfo, bool) {
	for _, t := range s.Types {
		if t.Name == name {
			return t, true
		}
	}
	return TypeInfo{}, false
}

// ObjectLabels returns all object labels in snapshot order.
func (s *Snapshot) ObjectLabels() []string {
	labels := make([]string, len(s.Objects))
	for i, obj := range s.Objects {
		labels[i] = obj.Label
	}
	return labels
}

// TypeNames returns all type names in snapshot order.
func (s *Snapshot) TypeNames() []string {
	names := make([]string, len(s.Types))
	for i, t := range s.Types {
		names[i] = t.Name
	}
	return names
}
