package dockerx

// StatsSample mirrors the subset of the engine's stats JSON the dashboard
// consumes. Optional counters are pointers so that "field absent" is
// distinguishable from zero; the percent calculations skip samples with
// missing fields.
type StatsSample struct {
	CPUStats    CPUStats    `json:"cpu_stats"`
	PreCPUStats CPUStats    `json:"precpu_stats"`
	MemoryStats MemoryStats `json:"memory_stats"`
}

// CPUStats holds the cumulative CPU counters of one sample.
type CPUStats struct {
	Usage       CPUUsage `json:"cpu_usage"`
	SystemUsage *uint64  `json:"system_cpu_usage,omitempty"`
	OnlineCPUs  *uint32  `json:"online_cpus,omitempty"`
}

// CPUUsage holds the per-container usage counters.
type CPUUsage struct {
	TotalUsage uint64 `json:"total_usage"`
}

// MemoryStats holds memory usage and limit. Stats carries the cgroup v1
// detail block; on cgroup v2 the cache field decodes as zero, which is
// exactly the fallback the usage calculation wants.
type MemoryStats struct {
	Usage *uint64       `json:"usage,omitempty"`
	Limit uint64        `json:"limit"`
	Stats MemoryDetails `json:"stats"`
}

// MemoryDetails is the cgroup v1 stats block; only the page cache matters here.
type MemoryDetails struct {
	Cache uint64 `json:"cache"`
}
