package domains

// Snapshot is one validated point-in-time metrics reading fetched from a
// computer's /systeminfo endpoint. All required fields are present; the
// adapter rejects payloads that cannot fill this struct.
type Snapshot struct {
	CPUPercent       float64
	MemoryTotal      int64
	MemoryUsed       int64
	MemoryPercent    float64
	DiskTotal        int64
	DiskUsed         int64
	DiskPercent      float64
	NetworkBytesSent int64
	NetworkBytesRecv int64
	Hostname         string
	System           string
	TopProcesses     []SnapshotProcess
}

// SnapshotProcess is one top-process entry inside a Snapshot.
type SnapshotProcess struct {
	PID           int64
	Name          string
	CPUPercent    float64
	MemoryPercent float64
	CreateTime    float64
}
