package dockerx

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
)

// RealClient implements Client using the Docker SDK. It honours the standard
// environment (DOCKER_HOST and friends) and otherwise talks to the default
// local socket.
type RealClient struct {
	cli  *client.Client
	tail int
}

// NewRealClient creates a Docker client from the environment with API version
// negotiation. tailLines is how much history log streams start with;
// non-positive values fall back to LogTailLines. Reachability of the daemon is
// not checked here; a dead daemon surfaces as list errors and the UI degrades
// to an empty container table.
func NewRealClient(tailLines int) (*RealClient, error) {
	if tailLines <= 0 {
		tailLines = LogTailLines
	}
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &RealClient{cli: cli, tail: tailLines}, nil
}

// Ping verifies the daemon is reachable.
func (c *RealClient) Ping(ctx context.Context) error {
	_, err := c.cli.Ping(ctx)
	return err
}

// ListContainers returns all containers with display fields resolved.
// The IP requires a per-container inspect; inspect failures degrade to "N/A".
func (c *RealClient) ListContainers(ctx context.Context) ([]Container, error) {
	list, err := c.cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	result := make([]Container, 0, len(list))
	for _, ctr := range list {
		shortID := ctr.ID
		if len(shortID) > 12 {
			shortID = shortID[:12]
		}

		names := make([]string, 0, len(ctr.Names))
		for _, n := range ctr.Names {
			names = append(names, strings.TrimPrefix(n, "/"))
		}

		result = append(result, Container{
			ID:      ctr.ID,
			ShortID: shortID,
			Image:   ctr.Image,
			Status:  ctr.Status,
			Names:   strings.Join(names, ", "),
			IP:      c.containerIP(ctx, ctr.ID),
		})
	}

	return result, nil
}

// containerIP resolves a container's primary IP via inspect.
func (c *RealClient) containerIP(ctx context.Context, id string) string {
	inspect, err := c.cli.ContainerInspect(ctx, id)
	if err != nil || inspect.NetworkSettings == nil {
		return UnknownIP
	}
	if ip := inspect.NetworkSettings.IPAddress; ip != "" {
		return ip
	}
	// Containers on user-defined networks carry the address per network.
	for _, net := range inspect.NetworkSettings.Networks {
		if net != nil && net.IPAddress != "" {
			return net.IPAddress
		}
	}
	return UnknownIP
}

// StreamLogs opens a follow-tail stream of the container's stdout and stderr,
// starting with the last LogTailLines lines. Docker multiplexes both streams
// over one connection; stdcopy demultiplexes them into a single plain-text
// pipe.
func (c *RealClient) StreamLogs(ctx context.Context, id string) (io.ReadCloser, error) {
	logs, err := c.cli.ContainerLogs(ctx, id, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
		Tail:       strconv.Itoa(c.tail),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get container logs: %w", err)
	}

	pr, pw := io.Pipe()
	go func() {
		defer logs.Close()
		if _, err := stdcopy.StdCopy(pw, pw, logs); err != nil {
			pw.CloseWithError(fmt.Errorf("log demux error: %w", err))
			return
		}
		pw.Close()
	}()

	return pr, nil
}

// StreamStats opens the raw streaming stats endpoint for a container. The
// body is a sequence of JSON documents, one per sample, roughly one a second.
func (c *RealClient) StreamStats(ctx context.Context, id string) (io.ReadCloser, error) {
	resp, err := c.cli.ContainerStats(ctx, id, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get container stats: %w", err)
	}
	return resp.Body, nil
}

// RestartContainer restarts a container with a graceful-stop timeout.
func (c *RealClient) RestartContainer(ctx context.Context, id string, timeoutSec int) error {
	var timeout *int
	if timeoutSec > 0 {
		timeout = &timeoutSec
	}
	if err := c.cli.ContainerRestart(ctx, id, container.StopOptions{Timeout: timeout}); err != nil {
		return fmt.Errorf("failed to restart container: %w", err)
	}
	return nil
}

// Close closes the underlying SDK client.
func (c *RealClient) Close() error {
	return c.cli.Close()
}
