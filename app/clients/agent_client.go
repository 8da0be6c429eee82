package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fleetmon/app/domains"
	"fleetmon/app/dto"
	"fleetmon/app/utils"
)

// FetchError is the failure of a single systeminfo fetch. StatusCode is zero
// for transport-level failures.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// AgentClient fetches metric snapshots from agents over HTTP
type AgentClient struct {
	httpClient *http.Client
}

// NewAgentClient creates a new agent client with a per-request timeout
func NewAgentClient(timeout time.Duration) *AgentClient {
	return &AgentClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchSystemInfo performs one authenticated GET {url}/systeminfo and returns
// a validated snapshot. Every failure mode — transport error, non-2xx status,
// malformed or incomplete body — comes back as a *FetchError.
func (c *AgentClient) FetchSystemInfo(ctx context.Context, url, token string) (*domains.Snapshot, error) {
	endpoint := strings.TrimRight(url, "/") + "/systeminfo"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{URL: endpoint, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &FetchError{
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("agent returned %s", strings.TrimSpace(string(body))),
		}
	}

	var info dto.SystemInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, &FetchError{URL: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("malformed body: %w", err)}
	}

	if err := utils.ValidateStruct(&info); err != nil {
		return nil, &FetchError{URL: endpoint, StatusCode: resp.StatusCode, Err: err}
	}

	return toSnapshot(&info), nil
}

// toSnapshot converts a validated wire payload into a domain snapshot,
// deriving disk percent when the agent did not report one.
func toSnapshot(info *dto.SystemInfo) *domains.Snapshot {
	diskPercent := 0.0
	if info.Disk.Percent != nil {
		diskPercent = *info.Disk.Percent
	} else if *info.Disk.Total > 0 {
		diskPercent = float64(*info.Disk.Used) / float64(*info.Disk.Total) * 100
	}

	snap := &domains.Snapshot{
		CPUPercent:       *info.CPUPercent,
		MemoryTotal:      *info.Memory.Total,
		MemoryUsed:       *info.Memory.Used,
		MemoryPercent:    *info.Memory.Percent,
		DiskTotal:        *info.Disk.Total,
		DiskUsed:         *info.Disk.Used,
		DiskPercent:      diskPercent,
		NetworkBytesSent: *info.Network.BytesSent,
		NetworkBytesRecv: *info.Network.BytesRecv,
		Hostname:         info.Hostname,
		System:           info.System,
	}

	for _, p := range info.TopProcesses {
		snap.TopProcesses = append(snap.TopProcesses, domains.SnapshotProcess{
			PID:           p.PID,
			Name:          p.Name,
			CPUPercent:    p.CPUPercent,
			MemoryPercent: p.MemoryPercent,
			CreateTime:    p.CreateTime,
		})
	}

	return snap
}
