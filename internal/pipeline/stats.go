package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/ToKoel/tugboat/internal/dockerx"
	"github.com/ToKoel/tugboat/internal/state"
)

// StatsCollector streams one container's raw counter samples and pushes
// percent utilisation into the app state's rolling windows.
type StatsCollector struct {
	client dockerx.Client
	app    *state.App
	log    *zap.Logger
}

// NewStatsCollector wires a collector to the engine client and shared state.
func NewStatsCollector(client dockerx.Client, app *state.App, log *zap.Logger) *StatsCollector {
	if log == nil {
		log = zap.NewNop()
	}
	return &StatsCollector{client: client, app: app, log: log}
}

// Run decodes stats samples until ctx is cancelled or the stream ends.
// Timestamps are monotonic seconds since the collector started. Samples with
// missing counters or zero denominators are dropped for that metric only.
func (c *StatsCollector) Run(ctx context.Context, containerID string) {
	c.log.Debug("stats collector starting", zap.String("container", containerID))

	stream, err := c.client.StreamStats(ctx, containerID)
	if err != nil {
		c.log.Debug("stats stream failed to open", zap.Error(err))
		return
	}
	defer stream.Close()

	start := time.Now()
	dec := json.NewDecoder(stream)
	for {
		if ctx.Err() != nil {
			return
		}
		var sample dockerx.StatsSample
		if err := dec.Decode(&sample); err != nil {
			if err != io.EOF && ctx.Err() == nil {
				c.log.Debug("stats stream ended", zap.Error(err))
			}
			return
		}
		ts := time.Since(start).Seconds()
		if v, ok := CPUPercent(sample); ok {
			c.app.AddCPUSample(ts, v)
		}
		if v, ok := MemPercent(sample); ok {
			c.app.AddMemSample(ts, v)
		}
	}
}

// CPUPercent converts one sample's cumulative counters into percent CPU
// utilisation. The second result is false when a required counter is absent
// or the system delta is not positive.
func CPUPercent(s dockerx.StatsSample) (float64, bool) {
	if s.CPUStats.SystemUsage == nil || s.PreCPUStats.SystemUsage == nil || s.CPUStats.OnlineCPUs == nil {
		return 0, false
	}
	cpuDelta := float64(s.CPUStats.Usage.TotalUsage) - float64(s.PreCPUStats.Usage.TotalUsage)
	systemDelta := float64(*s.CPUStats.SystemUsage) - float64(*s.PreCPUStats.SystemUsage)
	if systemDelta <= 0 {
		return 0, false
	}
	return (cpuDelta / systemDelta) * float64(*s.CPUStats.OnlineCPUs) * 100.0, true
}

// MemPercent converts one sample into percent memory utilisation. The page
// cache (cgroup v1) is subtracted from usage; on v2 the cache field decodes
// as zero. The second result is false when usage is absent or the limit is
// zero.
func MemPercent(s dockerx.StatsSample) (float64, bool) {
	if s.MemoryStats.Usage == nil || s.MemoryStats.Limit == 0 {
		return 0, false
	}
	used := float64(*s.MemoryStats.Usage) - float64(s.MemoryStats.Stats.Cache)
	return (used / float64(s.MemoryStats.Limit)) * 100.0, true
}
