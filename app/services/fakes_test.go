package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fleetmon/app/domains"
)

// fakeStorage is an in-memory StorageAdapter for driving the collector and
// registry without a database.
type fakeStorage struct {
	mu        sync.Mutex
	computers map[int64]*domains.Computer
	stats     map[int64][]domains.StatSample
	processes map[int64][]domains.ProcessSample
	users     map[string]string

	listErr   error
	insertErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		computers: make(map[int64]*domains.Computer),
		stats:     make(map[int64][]domains.StatSample),
		processes: make(map[int64][]domains.ProcessSample),
		users:     make(map[string]string),
	}
}

func (f *fakeStorage) addComputer(comp domains.Computer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := comp
	f.computers[comp.ID] = &c
}

func (f *fakeStorage) computer(id int64) domains.Computer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.computers[id]
}

func (f *fakeStorage) statCount(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stats[id])
}

func (f *fakeStorage) lastStat(id int64) domains.StatSample {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.stats[id]
	return rows[len(rows)-1]
}

func (f *fakeStorage) UpsertComputer(ctx context.Context, name, url, token string) (*domains.Computer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.computers {
		if c.Name == name {
			c.URL = url
			c.Token = token
			c.Status = domains.StatusOffline
			now := time.Now()
			c.LastSeen = &now
			out := *c
			return &out, nil
		}
	}
	id := int64(len(f.computers) + 1)
	now := time.Now()
	c := &domains.Computer{ID: id, Name: name, URL: url, Token: token, LastSeen: &now, Status: domains.StatusOffline}
	f.computers[id] = c
	out := *c
	return &out, nil
}

func (f *fakeStorage) GetComputer(ctx context.Context, id int64) (*domains.Computer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.computers[id]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (f *fakeStorage) ListComputers(ctx context.Context) ([]domains.Computer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domains.Computer
	for _, c := range f.computers {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeStorage) MarkComputerOnline(ctx context.Context, id int64, seenAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.computers[id]
	if !ok {
		return fmt.Errorf("unknown computer %d", id)
	}
	c.Status = domains.StatusOnline
	t := seenAt
	c.LastSeen = &t
	return nil
}

func (f *fakeStorage) MarkComputerOffline(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.computers[id]
	if !ok {
		return fmt.Errorf("unknown computer %d", id)
	}
	c.Status = domains.StatusOffline
	return nil
}

func (f *fakeStorage) DeleteComputerData(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stats, id)
	delete(f.processes, id)
	delete(f.computers, id)
	return nil
}

func (f *fakeStorage) InsertStat(ctx context.Context, sample *domains.StatSample) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.stats[sample.ComputerID] = append(f.stats[sample.ComputerID], *sample)
	return nil
}

func (f *fakeStorage) InsertProcesses(ctx context.Context, computerID int64, processes []domains.ProcessSample) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processes[computerID] = append(f.processes[computerID], processes...)
	return nil
}

func (f *fakeStorage) LatestStat(ctx context.Context, computerID int64) (*domains.StatSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.stats[computerID]
	if len(rows) == 0 {
		return nil, nil
	}
	out := rows[len(rows)-1]
	return &out, nil
}

func (f *fakeStorage) StatHistory(ctx context.Context, computerID int64, since time.Time) ([]domains.StatSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domains.StatSample
	for _, s := range f.stats[computerID] {
		if !s.Timestamp.Before(since) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStorage) LatestProcesses(ctx context.Context, computerID int64, window time.Duration) ([]domains.ProcessSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cutoff := time.Now().Add(-window)
	var out []domains.ProcessSample
	for _, p := range f.processes[computerID] {
		if !p.Timestamp.Before(cutoff) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStorage) PruneStats(ctx context.Context, olderThan time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeStorage) AuthenticateUser(ctx context.Context, username, passwordHash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	hash, ok := f.users[username]
	return ok && hash == passwordHash, nil
}

func (f *fakeStorage) UpdateUserPassword(ctx context.Context, username, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = passwordHash
	return nil
}

func (f *fakeStorage) Ping(ctx context.Context) error {
	return nil
}

// fakeFetcher maps agent URLs to canned snapshots or errors. A URL present
// in blocked waits until released (or the fetch context ends).
type fakeFetcher struct {
	mu        sync.Mutex
	snapshots map[string]*domains.Snapshot
	errs      map[string]error
	blocked   map[string]chan struct{}
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		snapshots: make(map[string]*domains.Snapshot),
		errs:      make(map[string]error),
		blocked:   make(map[string]chan struct{}),
	}
}

func (f *fakeFetcher) FetchSystemInfo(ctx context.Context, url, token string) (*domains.Snapshot, error) {
	f.mu.Lock()
	release := f.blocked[url]
	snap := f.snapshots[url]
	err := f.errs[url]
	f.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("no snapshot configured for %s", url)
	}
	out := *snap
	return &out, nil
}
