package domains

import "time"

// StatSample is one stored metrics reading for a computer. Rows are
// append-only; the rate columns are derived server-side from successive
// network counter readings.
type StatSample struct {
	ID                int64     `db:"id"`
	ComputerID        int64     `db:"computer_id"`
	Timestamp         time.Time `db:"timestamp"`
	CPUPercent        float64   `db:"cpu_percent"`
	MemoryTotal       int64     `db:"memory_total"`
	MemoryUsed        int64     `db:"memory_used"`
	MemoryPercent     float64   `db:"memory_percent"`
	DiskTotal         int64     `db:"disk_total"`
	DiskUsed          int64     `db:"disk_used"`
	DiskPercent       float64   `db:"disk_percent"`
	NetworkBytesSent  int64     `db:"network_bytes_sent"`
	NetworkBytesRecv  int64     `db:"network_bytes_recv"`
	NetworkSentPerSec float64   `db:"network_sent_per_sec"`
	NetworkRecvPerSec float64   `db:"network_recv_per_sec"`
}
