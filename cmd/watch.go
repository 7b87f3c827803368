package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/robaho/memglass/internal/client"
	"github.com/robaho/memglass/internal/config"
	"github.com/robaho/memglass/internal/render"
	"github.com/robaho/memglass/internal/snapshot"
)

var (
	watchInterval time.Duration
	watchChanges  bool
	watchObject   string
	watchFilter   string
	watchOutput   string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously watch the session",
	Long: `Poll the session on an interval and redraw the snapshot on each
fetch. While the server is unreachable the watch keeps retrying silently;
protocol and decode errors terminate it.

With --changes, only snapshots whose sequence number differs from the last
displayed one are drawn — structural changes such as objects appearing or
disappearing, not value updates.

Examples:
  memglass watch
  memglass watch --interval 100ms
  memglass watch --changes
  memglass watch --object main_counter
  memglass watch --filter 'fields.errors > 0' -o json`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", 0, "time between fetches")
	watchCmd.Flags().BoolVar(&watchChanges, "changes", false, "redraw only when the sequence number changes")
	watchCmd.Flags().StringVar(&watchObject, "object", "", "show only this object")
	watchCmd.Flags().StringVar(&watchFilter, "filter", "", "expression to select objects")
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "output format: text or json")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	interval := watchInterval
	if interval == 0 {
		interval = config.WatchInterval()
	}
	format := watchOutput
	if format == "" {
		format = config.OutputFormat()
	}

	keep, err := compileFilter(watchFilter)
	if err != nil {
		return err
	}
	if watchObject != "" {
		byLabel := keepLabel(watchObject)
		byFilter := keep
		keep = func(obj snapshot.ObjectInfo) bool {
			if !byLabel(obj) {
				return false
			}
			return byFilter == nil || byFilter(obj)
		}
	}

	c := newClient()
	r := newRenderer()

	var stream <-chan client.StreamResult
	if watchChanges {
		stream = c.StreamChanges(ctx, interval)
	} else {
		stream = c.Stream(ctx, interval)
	}

	fmt.Printf("Watching %s (Ctrl+C to stop)...\n\n", c.URL())

	for res := range stream {
		if res.Err != nil {
			return res.Err
		}
		if format == render.FormatText {
			r.ClearScreen()
		}
		if err := r.Snapshot(res.Snapshot, format, keep); err != nil {
			return err
		}
	}

	return nil
}
