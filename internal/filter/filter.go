// Package filter evaluates expression-language predicates against observed
// objects, for the --filter flag of objects and watch.
package filter

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/robaho/memglass/internal/snapshot"
)

// Filter is a compiled object predicate. Expressions see each object as
//
//	label   string
//	type    string
//	type_id int64
//	fields  map of field name to value (first match per name)
//
// for example: label == "main_counter" or fields.errors > 10.
type Filter struct {
	src     string
	program *vm.Program
}

// Compile parses and type-checks the expression.
func Compile(src string) (*Filter, error) {
	program, err := expr.Compile(src, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return &Filter{src: src, program: program}, nil
}

// Match evaluates the predicate for one object.
func (f *Filter) Match(obj snapshot.ObjectInfo) (bool, error) {
	fields := make(map[string]interface{}, len(obj.Fields))
	for _, fv := range obj.Fields {
		if _, exists := fields[fv.Name]; !exists {
			fields[fv.Name] = fv.Value.Interface()
		}
	}

	env := map[string]interface{}{
		"label":   obj.Label,
		"type":    obj.TypeName,
		"type_id": obj.TypeID,
		"fields":  fields,
	}

	out, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("filter %q failed on object %q: %w", f.src, obj.Label, err)
	}
	matched, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q did not evaluate to a boolean", f.src)
	}
	return matched, nil
}

// String returns the original expression source.
func (f *Filter) String() string { return f.src }
