package domains

import "time"

// ProcessSample is one stored top-process row for a computer. CreateTime is
// the process start time as a Unix epoch (seconds, fractional).
type ProcessSample struct {
	ID            int64     `db:"id"`
	ComputerID    int64     `db:"computer_id"`
	Timestamp     time.Time `db:"timestamp"`
	PID           int64     `db:"pid"`
	Name          string    `db:"name"`
	CPUPercent    float64   `db:"cpu_percent"`
	MemoryPercent float64   `db:"memory_percent"`
	CreateTime    float64   `db:"create_time"`
}
