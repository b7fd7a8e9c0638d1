package dockerx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// FakeClient implements Client for tests. Log lines and stats samples are
// registered up front and replayed as finite streams.
type FakeClient struct {
	mu         sync.Mutex
	containers []Container
	logLines   map[string][]string
	stats      map[string][]StatsSample
	errors     map[string]error
	restarted  []string
}

// NewFakeClient creates an empty fake engine.
func NewFakeClient() *FakeClient {
	return &FakeClient{
		logLines: make(map[string][]string),
		stats:    make(map[string][]StatsSample),
		errors:   make(map[string]error),
	}
}

// AddContainer registers a container row.
func (f *FakeClient) AddContainer(c Container) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.containers = append(f.containers, c)
}

// AddLogLines registers log lines replayed by StreamLogs for a container.
func (f *FakeClient) AddLogLines(id string, lines ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logLines[id] = append(f.logLines[id], lines...)
}

// AddStatsSamples registers stats samples replayed by StreamStats.
func (f *FakeClient) AddStatsSamples(id string, samples ...StatsSample) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats[id] = append(f.stats[id], samples...)
}

// SetError makes the named method return err.
func (f *FakeClient) SetError(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors[method] = err
}

// Restarted returns the ids passed to RestartContainer, in order.
func (f *FakeClient) Restarted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.restarted))
	copy(out, f.restarted)
	return out
}

// ListContainers returns the registered containers.
func (f *FakeClient) ListContainers(ctx context.Context) ([]Container, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errors["ListContainers"]; err != nil {
		return nil, err
	}
	out := make([]Container, len(f.containers))
	copy(out, f.containers)
	return out, nil
}

// StreamLogs replays the registered lines and then ends the stream.
func (f *FakeClient) StreamLogs(ctx context.Context, id string) (io.ReadCloser, error) {
	f.mu.Lock()
	err := f.errors["StreamLogs"]
	lines, ok := f.logLines[id]
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("container not found: %s", id)
	}

	pr, pw := io.Pipe()
	go func() {
		defer pw.Close()
		for _, line := range lines {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if _, err := pw.Write([]byte(line + "\n")); err != nil {
				return
			}
		}
	}()
	return pr, nil
}

// StreamStats replays the registered samples as a JSON document sequence and
// then ends the stream.
func (f *FakeClient) StreamStats(ctx context.Context, id string) (io.ReadCloser, error) {
	f.mu.Lock()
	err := f.errors["StreamStats"]
	samples, ok := f.stats[id]
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("container not found: %s", id)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, s := range samples {
		if err := enc.Encode(s); err != nil {
			return nil, err
		}
	}
	return io.NopCloser(&buf), nil
}

// RestartContainer records the restart request.
func (f *FakeClient) RestartContainer(ctx context.Context, id string, timeoutSec int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errors["RestartContainer"]; err != nil {
		return err
	}
	f.restarted = append(f.restarted, id)
	return nil
}

// Ping reports the configured error, if any.
func (f *FakeClient) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors["Ping"]
}

// Close is a no-op.
func (f *FakeClient) Close() error { return nil }
