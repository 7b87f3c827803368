package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/robaho/memglass/internal/snapshot"
)

func sample(t *testing.T) *snapshot.Snapshot {
	t.Helper()
	snap, err := snapshot.Parse([]byte(`{
		"pid": 10, "sequence": 2,
		"types": [{"name": "Counter", "type_id": 1, "size": 8, "field_count": 1}],
		"objects": [
			{"label": "main_counter", "type_name": "Counter", "type_id": 1, "fields": [
				{"name": "value", "value": 42, "atomicity": "atomic"}
			]}
		]
	}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return snap
}

func TestTextOutput(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	if err := New(&buf).Snapshot(sample(t), FormatText, nil); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"PID: 10  Sequence: 2  Objects: 1",
		"main_counter (Counter)",
		"value",
		"42",
		"[atomic]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTextFilter(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	keep := func(obj snapshot.ObjectInfo) bool { return obj.Label == "other" }
	if err := New(&buf).Snapshot(sample(t), FormatText, keep); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if strings.Contains(buf.String(), "main_counter") {
		t.Errorf("filtered object still rendered:\n%s", buf.String())
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf).Snapshot(sample(t), FormatJSON, nil); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["pid"] != float64(10) {
		t.Errorf("expected pid 10, got %v", decoded["pid"])
	}
}

func TestYAMLOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf).Snapshot(sample(t), FormatYAML, nil); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "pid: 10") {
		t.Errorf("YAML output missing pid:\n%s", out)
	}
	if !strings.Contains(out, "main_counter") {
		t.Errorf("YAML output missing object label:\n%s", out)
	}
}

func TestUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf).Snapshot(sample(t), "xml", nil); err == nil {
		t.Error("expected error for unknown format")
	}
}
