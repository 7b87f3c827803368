package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/robaho/memglass/internal/config"
	"github.com/robaho/memglass/internal/diff"
	"github.com/robaho/memglass/internal/render"
	"github.com/robaho/memglass/internal/snapshot"
)

var (
	diffInterval time.Duration
	diffOnce     bool
	diffOutput   string
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show changes between successive snapshots",
	Long: `Poll the session and print only what changed between consecutive
snapshots: modified field values, added and removed objects. With --once,
take exactly two snapshots one interval apart, print their difference and
exit. With -o json the difference is emitted as a JSON merge patch over the
wire payload.

Examples:
  memglass diff
  memglass diff --interval 1s
  memglass diff --once -o json`,
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().DurationVarP(&diffInterval, "interval", "i", 0, "time between fetches")
	diffCmd.Flags().BoolVar(&diffOnce, "once", false, "compare exactly two snapshots, then exit")
	diffCmd.Flags().StringVarP(&diffOutput, "output", "o", "", "output format: text or json")
}

func runDiff(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	interval := diffInterval
	if interval == 0 {
		interval = config.WatchInterval()
	}

	c := newClient()

	prev, err := c.Fetch(ctx)
	if err != nil {
		return err
	}

	if diffOnce {
		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return ctx.Err()
		}
		next, err := c.Fetch(ctx)
		if err != nil {
			return err
		}
		return printDiff(prev, next)
	}

	for res := range c.Stream(ctx, interval) {
		if res.Err != nil {
			return res.Err
		}
		if err := printDiff(prev, res.Snapshot); err != nil {
			return err
		}
		prev = res.Snapshot
	}

	return nil
}

func printDiff(before, after *snapshot.Snapshot) error {
	result := diff.Compare(before, after)
	if result.Empty() {
		return nil
	}

	if diffOutput == render.FormatJSON {
		patch, err := diff.MergePatch(before, after)
		if err != nil {
			return err
		}
		fmt.Println(string(patch))
		return nil
	}

	fmt.Printf("sequence %d -> %d\n", result.FromSequence, result.ToSequence)
	for _, label := range result.Added {
		fmt.Printf("  + %s\n", label)
	}
	for _, label := range result.Removed {
		fmt.Printf("  - %s\n", label)
	}
	for _, change := range result.Changes {
		switch {
		case change.Old == nil:
			fmt.Printf("  %s.%s: added %s\n", change.Object, change.Field, change.New.String())
		case change.New == nil:
			fmt.Printf("  %s.%s: removed (was %s)\n", change.Object, change.Field, change.Old.String())
		default:
			fmt.Printf("  %s.%s: %s -> %s\n", change.Object, change.Field, change.Old.String(), change.New.String())
		}
	}
	return nil
}
