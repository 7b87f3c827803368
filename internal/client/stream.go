package client

import (
	"context"
	"time"

	"github.com/robaho/memglass/internal/snapshot"
)

// StreamResult is one emission from a streaming loop: either a snapshot or
// a terminal error, never both. After a result with a non-nil Err the
// channel is closed.
type StreamResult struct {
	Snapshot *snapshot.Snapshot
	Err      error
}

// Stream fetches on every interval tick and delivers each snapshot in fetch
// order. Connection errors are swallowed — the tick produces nothing and the
// loop keeps going. Protocol and decode errors are terminal: they are
// delivered as the final result and the channel closes. Cancelling ctx
// closes the channel without a result.
func (c *Client) Stream(ctx context.Context, interval time.Duration) <-chan StreamResult {
	out := make(chan StreamResult)
	go func() {
		defer close(out)
		for {
			snap, err := c.Fetch(ctx)
			switch {
			case err == nil:
				select {
				case out <- StreamResult{Snapshot: snap}:
				case <-ctx.Done():
					return
				}
			case IsConnectionError(err):
				// Server unreachable: retry on the next tick.
				if ctx.Err() != nil {
					return
				}
			default:
				select {
				case out <- StreamResult{Err: err}:
				case <-ctx.Done():
				}
				return
			}

			select {
			case <-time.After(interval):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// StreamChanges is Stream filtered by sequence number: a snapshot is
// delivered only when its sequence differs from the previously delivered
// one, so the consumer never sees two consecutive emissions with the same
// sequence. The first successful fetch always emits.
//
// Sequence equality is the only change signal. Two structurally different
// snapshots sharing a sequence value would be coalesced.
func (c *Client) StreamChanges(ctx context.Context, interval time.Duration) <-chan StreamResult {
	out := make(chan StreamResult)
	go func() {
		defer close(out)
		var lastSeq uint64
		var emitted bool
		for {
			snap, err := c.Fetch(ctx)
			switch {
			case err == nil:
				if !emitted || snap.Sequence != lastSeq {
					select {
					case out <- StreamResult{Snapshot: snap}:
						lastSeq = snap.Sequence
						emitted = true
					case <-ctx.Done():
						return
					}
				}
			case IsConnectionError(err):
				if ctx.Err() != nil {
					return
				}
			default:
				select {
				case out <- StreamResult{Err: err}:
				case <-ctx.Done():
				}
				return
			}

			select {
			case <-time.After(interval):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// WaitForProducer polls until the server answers a fetch, retrying
// connection failures every pollInterval. It returns (true, nil) on the
// first successful fetch, (false, nil) once timeout elapses, and
// (false, err) immediately for non-connection errors or cancellation.
func (c *Client) WaitForProducer(ctx context.Context, timeout, pollInterval time.Duration) (bool, error) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		_, err := c.Fetch(ctx)
		if err == nil {
			return true, nil
		}
		if !IsConnectionError(err) {
			return false, err
		}
		if ctx.Err() != nil {
			return false, ctx.Err()
		}

		select {
		case <-time.After(pollInterval):
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	return false, nil
}
