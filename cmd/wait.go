package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/robaho/memglass/internal/config"
)

var (
	waitTimeout      time.Duration
	waitPollInterval time.Duration
)

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the producer to become available",
	Long: `Poll the server until a fetch succeeds, retrying while the server
is unreachable. Exits 0 once the producer answers, 1 if it does not become
available within the timeout.

Examples:
  memglass wait
  memglass wait --timeout 10s --poll-interval 200ms`,
	RunE: runWait,
}

func init() {
	rootCmd.AddCommand(waitCmd)

	waitCmd.Flags().DurationVar(&waitTimeout, "timeout", 0, "maximum time to wait")
	waitCmd.Flags().DurationVar(&waitPollInterval, "poll-interval", 0, "time between connection attempts")
}

func runWait(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	timeout := waitTimeout
	if timeout == 0 {
		timeout = config.WaitTimeout()
	}
	pollInterval := waitPollInterval
	if pollInterval == 0 {
		pollInterval = config.WaitPollInterval()
	}

	c := newClient()

	ok, err := c.WaitForProducer(ctx, timeout, pollInterval)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("producer at %s not available after %s", c.URL(), timeout)
	}

	fmt.Printf("Producer available at %s\n", c.URL())
	return nil
}
