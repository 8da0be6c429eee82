package agent

import (
	"testing"
	"time"
)

func TestNetworkUsageFirstReadingIsNil(t *testing.T) {
	c := NewCollector("/", 10)

	usage := c.networkUsage(1000, 2000, time.Now())
	if usage != nil {
		t.Errorf("first reading = %+v, want nil", usage)
	}
}

func TestNetworkUsageRates(t *testing.T) {
	c := NewCollector("/", 10)
	start := time.Now()

	c.networkUsage(1000, 2000, start)
	usage := c.networkUsage(1500, 4000, start.Add(10*time.Second))

	if usage == nil {
		t.Fatal("second reading returned nil")
	}
	if usage.BytesSentPerSec != 50 {
		t.Errorf("sent rate = %v, want 50", usage.BytesSentPerSec)
	}
	if usage.BytesRecvPerSec != 200 {
		t.Errorf("recv rate = %v, want 200", usage.BytesRecvPerSec)
	}
}

func TestNetworkUsageCounterResetClampsToZero(t *testing.T) {
	c := NewCollector("/", 10)
	start := time.Now()

	c.networkUsage(1000, 2000, start)
	usage := c.networkUsage(100, 2500, start.Add(10*time.Second))

	if usage == nil {
		t.Fatal("second reading returned nil")
	}
	if usage.BytesSentPerSec != 0 {
		t.Errorf("sent rate after reset = %v, want 0", usage.BytesSentPerSec)
	}
	if usage.BytesRecvPerSec != 50 {
		t.Errorf("recv rate = %v, want 50", usage.BytesRecvPerSec)
	}
}

func TestNetworkUsageNonPositiveElapsed(t *testing.T) {
	c := NewCollector("/", 10)
	now := time.Now()

	c.networkUsage(1000, 2000, now)
	if usage := c.networkUsage(2000, 3000, now); usage != nil {
		t.Errorf("zero elapsed = %+v, want nil", usage)
	}
}

func TestCounterRate(t *testing.T) {
	if got := counterRate(100, 600, 5); got != 100 {
		t.Errorf("counterRate(100, 600, 5) = %v, want 100", got)
	}
	if got := counterRate(600, 100, 5); got != 0 {
		t.Errorf("counterRate after reset = %v, want 0", got)
	}
}

func TestTopByCPU(t *testing.T) {
	entries := []ProcessEntry{
		{PID: 1, Name: "idle", CPUPercent: 0.1},
		{PID: 2, Name: "busy", CPUPercent: 90.0},
		{PID: 3, Name: "medium", CPUPercent: 45.5},
		{PID: 4, Name: "light", CPUPercent: 5.0},
	}

	top := TopByCPU(entries, 2)

	if len(top) != 2 {
		t.Fatalf("len = %d, want 2", len(top))
	}
	if top[0].Name != "busy" || top[1].Name != "medium" {
		t.Errorf("top = [%s, %s], want [busy, medium]", top[0].Name, top[1].Name)
	}
}

func TestTopByCPUFewerEntriesThanLimit(t *testing.T) {
	entries := []ProcessEntry{
		{PID: 1, Name: "only", CPUPercent: 1.0},
	}

	top := TopByCPU(entries, 10)
	if len(top) != 1 {
		t.Errorf("len = %d, want 1", len(top))
	}
}
