// Package render formats snapshots for the terminal. Color conventions
// follow the original memglass browser: labels bold yellow, type names cyan,
// atomicity tags magenta.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"

	"github.com/robaho/memglass/internal/snapshot"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// SetupColor applies the color policy: "always", "never", or "auto"
// (enabled only when stdout is a terminal).
func SetupColor(mode string) {
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default:
		fd := os.Stdout.Fd()
		color.NoColor = !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
	}
}

var (
	labelColor = color.New(color.FgYellow, color.Bold).SprintFunc()
	typeColor  = color.New(color.FgCyan).SprintFunc()
	atomColor  = color.New(color.FgMagenta).SprintFunc()
	valueColor = color.New(color.FgWhite, color.Bold).SprintFunc()
)

// Renderer writes snapshots to an output stream.
type Renderer struct {
	out io.Writer
}

// New creates a renderer writing to out.
func New(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Snapshot renders a full snapshot in the given format. keep restricts the
// displayed objects; nil keeps everything. JSON and YAML always emit the
// complete wire payload.
func (r *Renderer) Snapshot(snap *snapshot.Snapshot, format string, keep func(snapshot.ObjectInfo) bool) error {
	switch format {
	case FormatJSON:
		return r.JSON(snap)
	case FormatYAML:
		return r.YAML(snap)
	case FormatText, "":
		r.text(snap, keep)
		return nil
	}
	return fmt.Errorf("unknown output format %q (use text, json or yaml)", format)
}

func (r *Renderer) text(snap *snapshot.Snapshot, keep func(snapshot.ObjectInfo) bool) {
	fmt.Fprintf(r.out, "PID: %d  Sequence: %d  Objects: %d\n", snap.PID, snap.Sequence, len(snap.Objects))
	fmt.Fprintln(r.out, "------------------------------------------------------------")

	for _, obj := range snap.Objects {
		if keep != nil && !keep(obj) {
			continue
		}
		r.Object(obj)
	}
}

// Object renders one object with its fields.
func (r *Renderer) Object(obj snapshot.ObjectInfo) {
	fmt.Fprintf(r.out, "%s %s\n", labelColor(obj.Label), typeColor("("+obj.TypeName+")"))
	for _, f := range obj.Fields {
		suffix := ""
		if f.Atomicity != snapshot.AtomicityNone {
			suffix = " " + atomColor("["+string(f.Atomicity)+"]")
		}
		fmt.Fprintf(r.out, "  %-30s = %s%s\n", f.Name, valueColor(f.Value.String()), suffix)
	}
	fmt.Fprintln(r.out)
}

// JSON writes the wire-shaped payload, indented.
func (r *Renderer) JSON(snap *snapshot.Snapshot) error {
	data, err := snap.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	pretty, err := indentJSON(data)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, string(pretty))
	return nil
}

// YAML converts the wire-shaped payload to YAML. The payload is re-decoded
// with ordered maps so key order survives the conversion.
func (r *Renderer) YAML(snap *snapshot.Snapshot) error {
	data, err := snap.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	var doc interface{}
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return fmt.Errorf("failed to convert to YAML: %w", err)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to convert to YAML: %w", err)
	}
	fmt.Fprint(r.out, string(out))
	return nil
}

// Types renders the type descriptor table. Uncolored: ANSI escapes would
// break the column padding.
func (r *Renderer) Types(snap *snapshot.Snapshot) {
	fmt.Fprintf(r.out, "%-24s %-10s %-8s %s\n", "NAME", "TYPE_ID", "SIZE", "FIELDS")
	for _, t := range snap.Types {
		fmt.Fprintf(r.out, "%-24s %-10d %-8d %d\n", t.Name, t.TypeID, t.Size, t.FieldCount)
	}
}

// Objects renders the label list with type references.
func (r *Renderer) Objects(snap *snapshot.Snapshot, keep func(snapshot.ObjectInfo) bool) {
	for _, obj := range snap.Objects {
		if keep != nil && !keep(obj) {
			continue
		}
		fmt.Fprintf(r.out, "%s %s\n", labelColor(obj.Label), typeColor("("+obj.TypeName+")"))
	}
}

// ClearScreen resets the terminal between watch refreshes.
func (r *Renderer) ClearScreen() {
	fmt.Fprint(r.out, "\033[2J\033[H")
}

func indentJSON(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to format JSON: %w", err)
	}
	return buf.Bytes(), nil
}
