package cmd

import (
	"github.com/spf13/cobra"

	"github.com/robaho/memglass/internal/filter"
	"github.com/robaho/memglass/internal/snapshot"
)

var objectsFilter string

var objectsCmd = &cobra.Command{
	Use:   "objects",
	Short: "List observed objects",
	Long: `List the labels and type names of all observed objects.

The --filter flag takes an expression evaluated per object with the
variables label, type, type_id and fields:

  memglass objects
  memglass objects --filter 'type == "Counter"'
  memglass objects --filter 'fields.errors > 0'`,
	RunE: runObjects,
}

func init() {
	rootCmd.AddCommand(objectsCmd)

	objectsCmd.Flags().StringVar(&objectsFilter, "filter", "", "expression to select objects")
}

func runObjects(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	keep, err := compileFilter(objectsFilter)
	if err != nil {
		return err
	}

	snap, err := newClient().Fetch(ctx)
	if err != nil {
		return err
	}

	newRenderer().Objects(snap, keep)
	return nil
}

// compileFilter turns a --filter expression into a display predicate.
// Objects the expression fails to evaluate against (say a missing field)
// are treated as non-matching.
func compileFilter(src string) (func(snapshot.ObjectInfo) bool, error) {
	if src == "" {
		return nil, nil
	}
	f, err := filter.Compile(src)
	if err != nil {
		return nil, err
	}
	return func(obj snapshot.ObjectInfo) bool {
		ok, err := f.Match(obj)
		if err != nil {
			return false
		}
		return ok
	}, nil
}
