package dto

// ComputerResponse represents one monitored computer in list responses
type ComputerResponse struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	URL      string  `json:"url"`
	LastSeen *string `json:"last_seen"`
	Status   string  `json:"status"`
}

// StatResponse represents the latest stored sample for a computer
type StatResponse struct {
	Timestamp         string  `json:"timestamp"`
	CPUPercent        float64 `json:"cpu_percent"`
	MemoryTotal       int64   `json:"memory_total"`
	MemoryUsed        int64   `json:"memory_used"`
	MemoryPercent     float64 `json:"memory_percent"`
	DiskTotal         int64   `json:"disk_total"`
	DiskUsed          int64   `json:"disk_used"`
	DiskPercent       float64 `json:"disk_percent"`
	NetworkBytesSent  int64   `json:"network_bytes_sent"`
	NetworkBytesRecv  int64   `json:"network_bytes_recv"`
	NetworkSentPerSec float64 `json:"network_sent_per_sec"`
	NetworkRecvPerSec float64 `json:"network_recv_per_sec"`
}

// HistoryPoint represents one point of the ranged history series
type HistoryPoint struct {
	Timestamp     string  `json:"timestamp"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	DiskPercent   float64 `json:"disk_percent"`
}

// NetworkPoint represents one point of the network throughput series
type NetworkPoint struct {
	Timestamp  string  `json:"timestamp"`
	SentPerSec float64 `json:"sent_per_sec"`
	RecvPerSec float64 `json:"recv_per_sec"`
	TotalSent  int64   `json:"total_sent"`
	TotalRecv  int64   `json:"total_recv"`
}

// NetworkGraphResponse represents the trailing-24h network series
type NetworkGraphResponse struct {
	ComputerName string         `json:"computer_name"`
	Data         []NetworkPoint `json:"data"`
}

// CPUPoint represents one point of the CPU usage series
type CPUPoint struct {
	Timestamp  string  `json:"timestamp"`
	CPUPercent float64 `json:"cpu_percent"`
}

// CPUGraphResponse represents the trailing-24h CPU series
type CPUGraphResponse struct {
	ComputerName string     `json:"computer_name"`
	Data         []CPUPoint `json:"data"`
}

// ProcessEntry represents one process row in the process listing
type ProcessEntry struct {
	PID           int64   `json:"pid"`
	Name          string  `json:"name"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	UptimeHours   float64 `json:"uptime_hours"`
}

// ProcessesResponse represents the top-process listing for a computer
type ProcessesResponse struct {
	ComputerName string         `json:"computer_name"`
	Processes    []ProcessEntry `json:"processes"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// MessageResponse represents a plain confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}
