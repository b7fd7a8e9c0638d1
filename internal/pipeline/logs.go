// Package pipeline hosts the background producers: the log tailer and the
// stats collector. Both run as goroutines owned by a cancellation handle in
// the app state, write to the state only in short flushes, and terminate when
// their context is cancelled or their stream ends.
package pipeline

import (
	"bufio"
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/ToKoel/tugboat/internal/core"
	"github.com/ToKoel/tugboat/internal/dockerx"
	"github.com/ToKoel/tugboat/internal/state"
)

// FlushInterval is how long the tailer buffers quiet streams before pushing
// accumulated lines into the shared state.
const FlushInterval = 100 * time.Millisecond

// scanBufSize bounds a single log line; longer lines are split by the scanner.
const scanBufSize = 1024 * 1024

// LogTailer streams one container's logs into the app state.
type LogTailer struct {
	client dockerx.Client
	app    *state.App
	log    *zap.Logger
}

// NewLogTailer wires a tailer to the engine client and the shared state.
func NewLogTailer(client dockerx.Client, app *state.App, log *zap.Logger) *LogTailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogTailer{client: client, app: app, log: log}
}

// Run tails the container until ctx is cancelled or the stream ends. Lines
// are sanitized, batched, and flushed on a 100 ms tick; the state applies the
// follow offset and the trim on each flush. Stream errors become synthetic
// log lines so the user sees them in place.
func (t *LogTailer) Run(ctx context.Context, containerID string) {
	t.log.Debug("log tailer starting", zap.String("container", containerID))

	stream, err := t.client.StreamLogs(ctx, containerID)
	if err != nil {
		t.app.AppendLogs([]string{"Error streaming logs: " + err.Error()})
		return
	}
	defer stream.Close()

	lines := make(chan string, 256)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(stream)
		scanner.Buffer(make([]byte, 0, 64*1024), scanBufSize)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil && !isCancel(err) {
			scanErr <- err
		}
	}()

	ticker := time.NewTicker(FlushInterval)
	defer ticker.Stop()

	var buf []string
	flush := func() {
		if len(buf) == 0 {
			return
		}
		t.app.AppendLogs(buf)
		buf = nil
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			t.log.Debug("log tailer cancelled", zap.String("container", containerID))
			return

		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					buf = append(buf, "Error streaming logs: "+err.Error())
				default:
				}
				flush()
				t.log.Debug("log stream ended", zap.String("container", containerID))
				return
			}
			buf = append(buf, core.SanitizeLine(line))

		case err := <-scanErr:
			buf = append(buf, "Error streaming logs: "+err.Error())

		case <-ticker.C:
			flush()
		}
	}
}

// isCancel reports whether err stems from our own cancellation rather than
// the stream failing.
func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.ErrClosedPipe)
}
