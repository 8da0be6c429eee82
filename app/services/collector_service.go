package services

import (
	"context"
	"sync"
	"time"

	"fleetmon/app/clients"
	"fleetmon/app/domains"

	"go.uber.org/zap"
)

// SnapshotFetcher fetches one metrics snapshot from a computer's endpoint.
// Implemented by clients.AgentClient.
type SnapshotFetcher interface {
	FetchSystemInfo(ctx context.Context, url, token string) (*domains.Snapshot, error)
}

// CollectorService runs the background polling loop. Each cycle lists the
// registered computers and fetches all of them concurrently; one computer's
// failure or slowness never delays the others. Cycles are strictly
// serialized: a new cycle does not start while the previous one is running,
// so a slow fleet degrades cadence rather than stacking work.
type CollectorService struct {
	storage      clients.StorageAdapter
	fetcher      SnapshotFetcher
	rates        *RateTracker
	logger       *zap.Logger
	interval     time.Duration
	fetchTimeout time.Duration
	maxInFlight  int

	now func() time.Time
}

// NewCollectorService creates a new collector service
func NewCollectorService(
	storage clients.StorageAdapter,
	fetcher SnapshotFetcher,
	rates *RateTracker,
	logger *zap.Logger,
	interval time.Duration,
	fetchTimeout time.Duration,
	maxInFlight int,
) *CollectorService {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &CollectorService{
		storage:      storage,
		fetcher:      fetcher,
		rates:        rates,
		logger:       logger,
		interval:     interval,
		fetchTimeout: fetchTimeout,
		maxInFlight:  maxInFlight,
		now:          time.Now,
	}
}

// Run starts the polling loop and blocks until the context is cancelled.
// An in-flight cycle finishes before Run returns. No failure inside a cycle
// terminates the loop.
func (s *CollectorService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Poll once immediately instead of waiting a full interval
	s.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("collector stopped")
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// runCycle polls every registered computer once, bounded by maxInFlight
// concurrent fetches.
func (s *CollectorService) runCycle(ctx context.Context) {
	computers, err := s.storage.ListComputers(ctx)
	if err != nil {
		s.logger.Error("failed to list computers, skipping cycle", zap.Error(err))
		return
	}

	sem := make(chan struct{}, s.maxInFlight)
	var wg sync.WaitGroup

	for i := range computers {
		comp := computers[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			s.collectOne(ctx, &comp)
		}()
	}

	wg.Wait()
}

// collectOne fetches one computer and records the outcome. On any failure the
// computer is marked offline and last_seen is left unchanged.
func (s *CollectorService) collectOne(ctx context.Context, comp *domains.Computer) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	snap, err := s.fetcher.FetchSystemInfo(fetchCtx, comp.URL, comp.Token)
	if err != nil {
		s.logger.Warn("fetch failed",
			zap.String("computer", comp.Name),
			zap.Int64("id", comp.ID),
			zap.Error(err))
		s.markOffline(ctx, comp)
		return
	}

	now := s.now()
	sentPerSec, recvPerSec := s.rates.Rate(comp.ID, snap.NetworkBytesSent, snap.NetworkBytesRecv, now)

	sample := &domains.StatSample{
		ComputerID:        comp.ID,
		Timestamp:         now,
		CPUPercent:        snap.CPUPercent,
		MemoryTotal:       snap.MemoryTotal,
		MemoryUsed:        snap.MemoryUsed,
		MemoryPercent:     snap.MemoryPercent,
		DiskTotal:         snap.DiskTotal,
		DiskUsed:          snap.DiskUsed,
		DiskPercent:       snap.DiskPercent,
		NetworkBytesSent:  snap.NetworkBytesSent,
		NetworkBytesRecv:  snap.NetworkBytesRecv,
		NetworkSentPerSec: sentPerSec,
		NetworkRecvPerSec: recvPerSec,
	}

	if err := s.storage.InsertStat(ctx, sample); err != nil {
		s.logger.Error("failed to store sample",
			zap.String("computer", comp.Name),
			zap.Error(err))
		s.markOffline(ctx, comp)
		return
	}

	if len(snap.TopProcesses) > 0 {
		processes := make([]domains.ProcessSample, 0, len(snap.TopProcesses))
		for _, p := range snap.TopProcesses {
			processes = append(processes, domains.ProcessSample{
				ComputerID:    comp.ID,
				Timestamp:     now,
				PID:           p.PID,
				Name:          p.Name,
				CPUPercent:    p.CPUPercent,
				MemoryPercent: p.MemoryPercent,
				CreateTime:    p.CreateTime,
			})
		}
		if err := s.storage.InsertProcesses(ctx, comp.ID, processes); err != nil {
			// The stat row is already written; losing one process batch is
			// not worth failing the computer over.
			s.logger.Error("failed to store processes",
				zap.String("computer", comp.Name),
				zap.Error(err))
		}
	}

	if err := s.storage.MarkComputerOnline(ctx, comp.ID, now); err != nil {
		s.logger.Error("failed to mark computer online",
			zap.String("computer", comp.Name),
			zap.Error(err))
	}
}

func (s *CollectorService) markOffline(ctx context.Context, comp *domains.Computer) {
	if err := s.storage.MarkComputerOffline(ctx, comp.ID); err != nil {
		s.logger.Error("failed to mark computer offline",
			zap.String("computer", comp.Name),
			zap.Error(err))
	}
}
