package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	gnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// SystemInfo is the payload served on /systeminfo
type SystemInfo struct {
	CPUPercent   float64         `json:"cpu_percent"`
	Memory       MemoryUsage     `json:"memory"`
	Disk         DiskUsage       `json:"disk"`
	Network      NetworkCounters `json:"network"`
	NetworkUsage *NetworkUsage   `json:"network_usage,omitempty"`
	TopProcesses []ProcessEntry  `json:"top_processes,omitempty"`
	Hostname     string          `json:"hostname"`
	System       string          `json:"system"`
}

// MemoryUsage mirrors virtual memory usage in bytes
type MemoryUsage struct {
	Total   uint64  `json:"total"`
	Used    uint64  `json:"used"`
	Percent float64 `json:"percent"`
}

// DiskUsage mirrors root filesystem usage in bytes
type DiskUsage struct {
	Total   uint64  `json:"total"`
	Used    uint64  `json:"used"`
	Percent float64 `json:"percent"`
}

// NetworkCounters carries cumulative interface counters
type NetworkCounters struct {
	BytesSent uint64 `json:"bytes_sent"`
	BytesRecv uint64 `json:"bytes_recv"`
}

// NetworkUsage carries per-second rates derived from successive reads
type NetworkUsage struct {
	BytesSentPerSec float64 `json:"bytes_sent_per_sec"`
	BytesRecvPerSec float64 `json:"bytes_recv_per_sec"`
}

// ProcessEntry carries one top-process row
type ProcessEntry struct {
	PID           int64   `json:"pid"`
	Name          string  `json:"name"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	CreateTime    float64 `json:"create_time"`
}

// Collector gathers system metrics via gopsutil. It remembers the previous
// network counter reading to report per-second throughput alongside the raw
// counters.
type Collector struct {
	diskPath     string
	topProcesses int

	mu       sync.Mutex
	prevSent uint64
	prevRecv uint64
	prevAt   time.Time
}

// NewCollector creates a collector reading disk usage from diskPath and
// reporting the topProcesses busiest processes.
func NewCollector(diskPath string, topProcesses int) *Collector {
	return &Collector{
		diskPath:     diskPath,
		topProcesses: topProcesses,
	}
}

// Collect assembles one SystemInfo snapshot. CPU measurement blocks for one
// second to produce a meaningful percentage. Process collection is best
// effort; everything else is required and fails the whole snapshot.
func (c *Collector) Collect(ctx context.Context) (*SystemInfo, error) {
	cpuPercents, err := cpu.PercentWithContext(ctx, time.Second, false)
	if err != nil {
		return nil, fmt.Errorf("cpu: %w", err)
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("memory: %w", err)
	}

	du, err := disk.UsageWithContext(ctx, c.diskPath)
	if err != nil {
		return nil, fmt.Errorf("disk: %w", err)
	}

	counters, err := gnet.IOCountersWithContext(ctx, false)
	if err != nil || len(counters) == 0 {
		return nil, fmt.Errorf("network: %w", err)
	}

	info := &SystemInfo{
		Memory: MemoryUsage{
			Total:   vm.Total,
			Used:    vm.Used,
			Percent: vm.UsedPercent,
		},
		Disk: DiskUsage{
			Total:   du.Total,
			Used:    du.Used,
			Percent: du.UsedPercent,
		},
		Network: NetworkCounters{
			BytesSent: counters[0].BytesSent,
			BytesRecv: counters[0].BytesRecv,
		},
	}
	if len(cpuPercents) > 0 {
		info.CPUPercent = cpuPercents[0]
	}

	info.NetworkUsage = c.networkUsage(counters[0].BytesSent, counters[0].BytesRecv, time.Now())

	if hostInfo, err := host.InfoWithContext(ctx); err == nil {
		info.Hostname = hostInfo.Hostname
		info.System = hostInfo.OS
	}

	info.TopProcesses = c.collectProcesses(ctx)

	return info, nil
}

// networkUsage derives per-second rates from the previous counter reading.
// The first reading reports nil; counter resets clamp to zero.
func (c *Collector) networkUsage(sent, recv uint64, now time.Time) *NetworkUsage {
	c.mu.Lock()
	defer c.mu.Unlock()

	defer func() {
		c.prevSent = sent
		c.prevRecv = recv
		c.prevAt = now
	}()

	if c.prevAt.IsZero() {
		return nil
	}
	elapsed := now.Sub(c.prevAt).Seconds()
	if elapsed <= 0 {
		return nil
	}

	return &NetworkUsage{
		BytesSentPerSec: counterRate(c.prevSent, sent, elapsed),
		BytesRecvPerSec: counterRate(c.prevRecv, recv, elapsed),
	}
}

func counterRate(prev, cur uint64, elapsed float64) float64 {
	if cur < prev {
		return 0
	}
	return float64(cur-prev) / elapsed
}

// collectProcesses returns the busiest processes by CPU. Individual process
// reads race with process exit, so per-process errors are skipped.
func (c *Collector) collectProcesses(ctx context.Context) []ProcessEntry {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil
	}

	entries := make([]ProcessEntry, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		cpuPct, err := p.CPUPercentWithContext(ctx)
		if err != nil {
			continue
		}
		memPct, err := p.MemoryPercentWithContext(ctx)
		if err != nil {
			continue
		}
		createMs, err := p.CreateTimeWithContext(ctx)
		if err != nil {
			createMs = 0
		}
		entries = append(entries, ProcessEntry{
			PID:           int64(p.Pid),
			Name:          name,
			CPUPercent:    cpuPct,
			MemoryPercent: float64(memPct),
			CreateTime:    float64(createMs) / 1000,
		})
	}

	return TopByCPU(entries, c.topProcesses)
}

// TopByCPU returns the n busiest entries by CPU percent, ties broken by
// memory percent.
func TopByCPU(entries []ProcessEntry, n int) []ProcessEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CPUPercent != entries[j].CPUPercent {
			return entries[i].CPUPercent > entries[j].CPUPercent
		}
		return entries[i].MemoryPercent > entries[j].MemoryPercent
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
