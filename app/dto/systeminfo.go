package dto

// SystemInfo is the wire payload served by an agent's /systeminfo endpoint.
// Required fields are pointers so that a missing key is distinguishable from
// a zero value; validation runs at the fetch boundary before the payload is
// converted into a domain snapshot.
type SystemInfo struct {
	CPUPercent   *float64          `json:"cpu_percent" validate:"required"`
	Memory       *MemoryInfo       `json:"memory" validate:"required"`
	Disk         *DiskInfo         `json:"disk" validate:"required"`
	Network      *NetworkInfo      `json:"network" validate:"required"`
	NetworkUsage *NetworkUsageInfo `json:"network_usage,omitempty"`
	TopProcesses []ProcessInfo     `json:"top_processes,omitempty"`
	Hostname     string            `json:"hostname"`
	System       string            `json:"system"`
}

// MemoryInfo carries virtual memory usage in bytes
type MemoryInfo struct {
	Total   *int64   `json:"total" validate:"required"`
	Used    *int64   `json:"used" validate:"required"`
	Percent *float64 `json:"percent" validate:"required"`
}

// DiskInfo carries root filesystem usage in bytes. Percent is optional and
// derived from used/total when absent.
type DiskInfo struct {
	Total   *int64   `json:"total" validate:"required"`
	Used    *int64   `json:"used" validate:"required"`
	Percent *float64 `json:"percent,omitempty"`
}

// NetworkInfo carries cumulative interface counters
type NetworkInfo struct {
	BytesSent *int64 `json:"bytes_sent" validate:"required"`
	BytesRecv *int64 `json:"bytes_recv" validate:"required"`
}

// NetworkUsageInfo carries agent-side per-second rates, when the agent
// computes them itself
type NetworkUsageInfo struct {
	BytesSentPerSec float64 `json:"bytes_sent_per_sec"`
	BytesRecvPerSec float64 `json:"bytes_recv_per_sec"`
}

// ProcessInfo carries one top-process entry
type ProcessInfo struct {
	PID           int64   `json:"pid"`
	Name          string  `json:"name"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	CreateTime    float64 `json:"create_time"`
}
