package dockerx

import (
	"context"
	"io"
)

// Client abstracts the Docker engine operations the dashboard needs.
// RealClient talks to the daemon; FakeClient backs the tests.
type Client interface {
	// ListContainers returns all containers (running or not) with the
	// display fields resolved, in the daemon's order.
	ListContainers(ctx context.Context) ([]Container, error)

	// StreamLogs opens a follow-tail log stream (stdout+stderr, last
	// LogTailLines lines, then following). The returned reader yields
	// plain demultiplexed text; the caller closes it.
	StreamLogs(ctx context.Context, id string) (io.ReadCloser, error)

	// StreamStats opens the engine's raw stats stream for a container:
	// a sequence of JSON-encoded StatsSample documents.
	StreamStats(ctx context.Context, id string) (io.ReadCloser, error)

	// RestartContainer restarts a container, waiting up to timeoutSec for
	// it to stop gracefully.
	RestartContainer(ctx context.Context, id string, timeoutSec int) error

	// Ping verifies the daemon is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// Container holds one row of the dashboard's container table.
type Container struct {
	ID      string // full id
	ShortID string // first 12 characters, for display
	Image   string
	Status  string // e.g. "Up 2 hours"
	Names   string // comma-joined, without leading '/'
	IP      string // primary network IP, "N/A" when unresolvable
}

// LogTailLines is how much history a log stream starts with before following.
const LogTailLines = 2000

// UnknownIP is rendered when a container's address cannot be inspected.
const UnknownIP = "N/A"
