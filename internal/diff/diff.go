// Package diff compares two session snapshots field by field. This runs
// entirely client-side on already-fetched snapshots; the wire protocol has
// no delta support.
package diff

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/robaho/memglass/internal/snapshot"
)

// FieldChange records one field whose value differs between two snapshots.
// A nil Old means the field appeared; a nil New means it disappeared.
type FieldChange struct {
	Object string
	Field  string
	Old    *snapshot.Value
	New    *snapshot.Value
}

// Result is the outcome of comparing two snapshots.
type Result struct {
	FromSequence uint64
	ToSequence   uint64
	Added        []string // labels only present in the newer snapshot
	Removed      []string // labels only present in the older snapshot
	Changes      []FieldChange
}

// Empty reports whether nothing changed between the two snapshots.
func (r *Result) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Changes) == 0
}

// Compare walks both snapshots and collects per-field changes plus added
// and removed objects. Objects are matched by label (first occurrence, same
// as snapshot lookup); fields by name within a matched object.
func Compare(before, after *snapshot.Snapshot) *Result {
	result := &Result{
		FromSequence: before.Sequence,
		ToSequence:   after.Sequence,
	}

	seen := make(map[string]bool)
	for _, obj := range after.Objects {
		if seen[obj.Label] {
			continue
		}
		seen[obj.Label] = true

		prior, ok := before.Object(obj.Label)
		if !ok {
			result.Added = append(result.Added, obj.Label)
			continue
		}
		compareFields(result, prior, obj)
	}

	prev := make(map[string]bool)
	for _, obj := range before.Objects {
		if prev[obj.Label] {
			continue
		}
		prev[obj.Label] = true
		if !seen[obj.Label] {
			result.Removed = append(result.Removed, obj.Label)
		}
	}

	return result
}

func compareFields(result *Result, before, after snapshot.ObjectInfo) {
	done := make(map[string]bool)
	for _, f := range after.Fields {
		if done[f.Name] {
			continue
		}
		done[f.Name] = true

		old, ok := before.Field(f.Name)
		if !ok {
			value := f.Value
			result.Changes = append(result.Changes, FieldChange{
				Object: after.Label,
				Field:  f.Name,
				New:    &value,
			})
			continue
		}
		if !old.Value.Equal(f.Value) {
			oldValue, newValue := old.Value, f.Value
			result.Changes = append(result.Changes, FieldChange{
				Object: after.Label,
				Field:  f.Name,
				Old:    &oldValue,
				New:    &newValue,
			})
		}
	}

	seen := make(map[string]bool)
	for _, f := range before.Fields {
		if seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		if done[f.Name] {
			continue
		}
		value := f.Value
		result.Changes = append(result.Changes, FieldChange{
			Object: after.Label,
			Field:  f.Name,
			Old:    &value,
		})
	}
}

// MergePatch renders the difference between two snapshots as a JSON merge
// patch over their wire encodings.
func MergePatch(before, after *snapshot.Snapshot) ([]byte, error) {
	oldJSON, err := json.Marshal(before)
	if err != nil {
		return nil, fmt.Errorf("failed to encode old snapshot: %w", err)
	}
	newJSON, err := json.Marshal(after)
	if err != nil {
		return nil, fmt.Errorf("failed to encode new snapshot: %w", err)
	}
	patch, err := jsonpatch.CreateMergePatch(oldJSON, newJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to compute merge patch: %w", err)
	}
	return patch, nil
}
