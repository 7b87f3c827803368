package snapshot

import (
	"encoding/json"
	"fmt"
)

// Wire shape of GET /api/data. Pointers mark the keys the server must send;
// everything else has a stated default.
type wirePayload struct {
	PID      int          `json:"pid"`
	Sequence uint64       `json:"sequence"`
	Types    []wireType   `json:"types,omitempty"`
	Objects  []wireObject `json:"objects,omitempty"`
}

type wireType struct {
	Name       string `json:"name"`
	TypeID     int64  `json:"type_id"`
	Size       int64  `json:"size"`
	FieldCount int    `json:"field_count"`
}

type wireObject struct {
	Label    *string     `json:"label"`
	TypeName *string     `json:"type_name"`
	TypeID   *int64      `json:"type_id"`
	Fields   []wireField `json:"fields,omitempty"`
}

// Value stays raw here: a *Value field would decode JSON null to a nil
// pointer, making a null value indistinguishable from a missing key.
type wireField struct {
	Name      *string         `json:"name"`
	Value     json.RawMessage `json:"value,omitempty"`
	Atomicity *string         `json:"atomicity,omitempty"`
}

// Parse decodes an /api/data response body into a Snapshot.
//
// Absent pid/sequence default to 0, absent types/objects to empty, absent
// atomicity to "none". Missing label/type_name/type_id on an object, a
// missing name or value on a field, or an atomicity string outside the four
// known tags are decode failures — never defaulted or passed through.
func Parse(data []byte) (*Snapshot, error) {
	var payload wirePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	snap := &Snapshot{
		PID:      payload.PID,
		Sequence: payload.Sequence,
	}

	for _, t := range payload.Types {
		snap.Types = append(snap.Types, TypeInfo{
			Name:       t.Name,
			TypeID:     t.TypeID,
			Size:       t.Size,
			FieldCount: t.FieldCount,
		})
	}

	for i, obj := range payload.Objects {
		if obj.Label == nil {
			return nil, fmt.Errorf("object %d: missing label", i)
		}
		if obj.TypeName == nil {
			return nil, fmt.Errorf("object %q: missing type_name", *obj.Label)
		}
		if obj.TypeID == nil {
			return nil, fmt.Errorf("object %q: missing type_id", *obj.Label)
		}

		info := ObjectInfo{
			Label:    *obj.Label,
			TypeName: *obj.TypeName,
			TypeID:   *obj.TypeID,
		}

		for j, f := range obj.Fields {
			if f.Name == nil {
				return nil, fmt.Errorf("object %q: field %d: missing name", info.Label, j)
			}
			if f.Value == nil {
				return nil, fmt.Errorf("object %q: field %q: missing value", info.Label, *f.Name)
			}
			var value Value
			if err := value.UnmarshalJSON(f.Value); err != nil {
				return nil, fmt.Errorf("object %q: field %q: bad value: %w", info.Label, *f.Name, err)
			}
			atomicity, err := parseAtomicity(f.Atomicity)
			if err != nil {
				return nil, fmt.Errorf("object %q: field %q: %w", info.Label, *f.Name, err)
			}
			info.Fields = append(info.Fields, FieldValue{
				Name:      *f.Name,
				Value:     value,
				Atomicity: atomicity,
			})
		}

		snap.Objects = append(snap.Objects, info)
	}

	return snap, nil
}

func parseAtomicity(s *string) (Atomicity, error) {
	if s == nil {
		return AtomicityNone, nil
	}
	switch a := Atomicity(*s); a {
	case AtomicityNone, AtomicityAtomic, AtomicitySeqlock, AtomicityLocked:
		return a, nil
	}
	return "", fmt.Errorf("unknown atomicity %q", *s)
}

// MarshalJSON encodes the snapshot back into the wire shape, preserving
// type, object and field order. Parsing the result reproduces the snapshot.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	payload := wirePayload{
		PID:      s.PID,
		Sequence: s.Sequence,
	}

	for _, t := range s.Types {
		payload.Types = append(payload.Types, wireType{
			Name:       t.Name,
			TypeID:     t.TypeID,
			Size:       t.Size,
			FieldCount: t.FieldCount,
		})
	}

	for _, obj := range s.Objects {
		wobj := wireObject{
			Label:    ptr(obj.Label),
			TypeName: ptr(obj.TypeName),
			TypeID:   ptr(obj.TypeID),
		}
		for _, f := range obj.Fields {
			raw, err := f.Value.MarshalJSON()
			if err != nil {
				return nil, fmt.Errorf("object %q: field %q: %w", obj.Label, f.Name, err)
			}
			wf := wireField{
				Name:  ptr(f.Name),
				Value: raw,
			}
			if f.Atomicity != AtomicityNone && f.Atomicity != "" {
				wf.Atomicity = ptr(string(f.Atomicity))
			}
			wobj.Fields = append(wobj.Fields, wf)
		}
		payload.Objects = append(payload.Objects, wobj)
	}

	return json.Marshal(payload)
}

func ptr[T any](v T) *T { return &v }
