package clients

import (
	"context"
	"time"

	"fleetmon/app/domains"
)

// StorageAdapter defines the interface for storage operations
type StorageAdapter interface {
	// Registry
	UpsertComputer(ctx context.Context, name, url, token string) (*domains.Computer, error)
	GetComputer(ctx context.Context, id int64) (*domains.Computer, error)
	ListComputers(ctx context.Context) ([]domains.Computer, error)
	MarkComputerOnline(ctx context.Context, id int64, seenAt time.Time) error
	MarkComputerOffline(ctx context.Context, id int64) error
	DeleteComputerData(ctx context.Context, id int64) error

	// Time series
	InsertStat(ctx context.Context, sample *domains.StatSample) error
	InsertProcesses(ctx context.Context, computerID int64, processes []domains.ProcessSample) error
	LatestStat(ctx context.Context, computerID int64) (*domains.StatSample, error)
	StatHistory(ctx context.Context, computerID int64, since time.Time) ([]domains.StatSample, error)
	LatestProcesses(ctx context.Context, computerID int64, window time.Duration) ([]domains.ProcessSample, error)
	PruneStats(ctx context.Context, olderThan time.Time) (int64, error)

	// Dashboard users
	AuthenticateUser(ctx context.Context, username, passwordHash string) (bool, error)
	UpdateUserPassword(ctx context.Context, username, passwordHash string) error

	Ping(ctx context.Context) error
}
