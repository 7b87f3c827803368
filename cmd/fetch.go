package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robaho/memglass/internal/config"
	"github.com/robaho/memglass/internal/snapshot"
)

var (
	fetchOutput string
	fetchObject string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the current session snapshot",
	Long: `Fetch the session state once and print it.

Examples:
  memglass fetch
  memglass fetch -o json
  memglass fetch --object main_counter`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "output format: text, json or yaml")
	fetchCmd.Flags().StringVar(&fetchObject, "object", "", "show only this object")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	snap, err := newClient().Fetch(ctx)
	if err != nil {
		return err
	}

	format := fetchOutput
	if format == "" {
		format = config.OutputFormat()
	}

	if fetchObject != "" {
		if _, ok := snap.Object(fetchObject); !ok {
			return fmt.Errorf("object %q not found in snapshot", fetchObject)
		}
	}

	return newRenderer().Snapshot(snap, format, keepLabel(fetchObject))
}

// keepLabel builds a display predicate restricting output to one label.
// An empty label keeps everything.
func keepLabel(label string) func(snapshot.ObjectInfo) bool {
	if label == "" {
		return nil
	}
	return func(obj snapshot.ObjectInfo) bool {
		return obj.Label == label
	}
}
