package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ToKoel/tugboat/internal/dockerx"
	"github.com/ToKoel/tugboat/internal/state"
)

func u64(v uint64) *uint64 { return &v }
func u32(v uint32) *uint32 { return &v }

func TestLogTailerStreamsSanitizedLines(t *testing.T) {
	fake := dockerx.NewFakeClient()
	fake.AddContainer(dockerx.Container{ID: "c1"})
	fake.AddLogLines("c1",
		"plain line",
		"\x1b[31mred line\x1b[0m",
		"tab\tkept\x07bell stripped",
	)

	app := state.New(state.Options{})
	tailer := NewLogTailer(fake, app, nil)
	tailer.Run(context.Background(), "c1")

	logs := app.Snapshot().Logs
	require.Equal(t, []string{
		"plain line",
		"red line",
		"tab\tkept bell stripped",
	}, logs)
}

func TestLogTailerOpenErrorBecomesLogLine(t *testing.T) {
	fake := dockerx.NewFakeClient()
	app := state.New(state.Options{})

	tailer := NewLogTailer(fake, app, nil)
	tailer.Run(context.Background(), "missing")

	logs := app.Snapshot().Logs
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0], "Error streaming logs:")
}

func TestLogTailerStopsOnCancel(t *testing.T) {
	fake := dockerx.NewFakeClient()
	fake.AddContainer(dockerx.Container{ID: "c1"})
	lines := make([]string, 500)
	for i := range lines {
		lines[i] = "line"
	}
	fake.AddLogLines("c1", lines...)

	app := state.New(state.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		NewLogTailer(fake, app, nil).Run(ctx, "c1")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tailer did not stop after cancellation")
	}
}

func TestStatsCollectorFillsWindows(t *testing.T) {
	fake := dockerx.NewFakeClient()
	fake.AddStatsSamples("c1",
		dockerx.StatsSample{
			CPUStats: dockerx.CPUStats{
				Usage:       dockerx.CPUUsage{TotalUsage: 300},
				SystemUsage: u64(2000),
				OnlineCPUs:  u32(4),
			},
			PreCPUStats: dockerx.CPUStats{
				Usage:       dockerx.CPUUsage{TotalUsage: 100},
				SystemUsage: u64(1000),
			},
			MemoryStats: dockerx.MemoryStats{Usage: u64(512), Limit: 1024},
		},
		// Missing system counter: CPU skipped, memory still recorded.
		dockerx.StatsSample{
			MemoryStats: dockerx.MemoryStats{Usage: u64(256), Limit: 1024},
		},
	)

	app := state.New(state.Options{})
	NewStatsCollector(fake, app, nil).Run(context.Background(), "c1")

	s := app.Snapshot()
	require.Len(t, s.CPU, 1)
	require.Len(t, s.Mem, 2)
	assert.InDelta(t, 80.0, s.CPU[0].Value, 1e-9)
	assert.InDelta(t, 50.0, s.Mem[0].Value, 1e-9)
	assert.InDelta(t, 25.0, s.Mem[1].Value, 1e-9)
	assert.InDelta(t, 80.0, s.CPUMax, 1e-9)
	assert.InDelta(t, 50.0, s.MemMax, 1e-9)
	// Timestamps are monotonic seconds since the collector started.
	assert.GreaterOrEqual(t, s.Mem[1].Key, s.Mem[0].Key)
}

func TestCPUPercent(t *testing.T) {
	tests := []struct {
		name   string
		sample dockerx.StatsSample
		want   float64
		ok     bool
	}{
		{
			name: "normal",
			sample: dockerx.StatsSample{
				CPUStats: dockerx.CPUStats{
					Usage:       dockerx.CPUUsage{TotalUsage: 300},
					SystemUsage: u64(2000),
					OnlineCPUs:  u32(4),
				},
				PreCPUStats: dockerx.CPUStats{
					Usage:       dockerx.CPUUsage{TotalUsage: 100},
					SystemUsage: u64(1000),
				},
			},
			want: 80.0,
			ok:   true,
		},
		{
			name: "missing system usage",
			sample: dockerx.StatsSample{
				CPUStats: dockerx.CPUStats{
					Usage:      dockerx.CPUUsage{TotalUsage: 300},
					OnlineCPUs: u32(4),
				},
				PreCPUStats: dockerx.CPUStats{SystemUsage: u64(1000)},
			},
			ok: false,
		},
		{
			name: "missing online cpus",
			sample: dockerx.StatsSample{
				CPUStats: dockerx.CPUStats{
					Usage:       dockerx.CPUUsage{TotalUsage: 300},
					SystemUsage: u64(2000),
				},
				PreCPUStats: dockerx.CPUStats{SystemUsage: u64(1000)},
			},
			ok: false,
		},
		{
			name: "zero system delta",
			sample: dockerx.StatsSample{
				CPUStats: dockerx.CPUStats{
					Usage:       dockerx.CPUUsage{TotalUsage: 300},
					SystemUsage: u64(1000),
					OnlineCPUs:  u32(4),
				},
				PreCPUStats: dockerx.CPUStats{
					Usage:       dockerx.CPUUsage{TotalUsage: 100},
					SystemUsage: u64(1000),
				},
			},
			ok: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CPUPercent(tt.sample)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestMemPercent(t *testing.T) {
	tests := []struct {
		name   string
		sample dockerx.StatsSample
		want   float64
		ok     bool
	}{
		{
			name: "v1 cache subtracted",
			sample: dockerx.StatsSample{
				MemoryStats: dockerx.MemoryStats{
					Usage: u64(512),
					Limit: 1024,
					Stats: dockerx.MemoryDetails{Cache: 256},
				},
			},
			want: 25.0,
			ok:   true,
		},
		{
			name: "v2 no cache",
			sample: dockerx.StatsSample{
				MemoryStats: dockerx.MemoryStats{Usage: u64(512), Limit: 1024},
			},
			want: 50.0,
			ok:   true,
		},
		{
			name: "missing usage",
			sample: dockerx.StatsSample{
				MemoryStats: dockerx.MemoryStats{Limit: 1024},
			},
			ok: false,
		},
		{
			name: "zero limit",
			sample: dockerx.StatsSample{
				MemoryStats: dockerx.MemoryStats{Usage: u64(512)},
			},
			ok: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MemPercent(tt.sample)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}
