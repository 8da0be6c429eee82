package postgres

import (
	"context"
	"fmt"
	"time"

	"fleetmon/app/domains"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// processRetention bounds how many process rows are kept per computer.
// Older rows are evicted on every insert batch, newest first.
const processRetention = 1000

// Store represents the Postgres storage implementation
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Postgres store
// The database must already exist - creation should be handled at the infrastructure/deployment level
func NewStore(connString string) (*Store, error) {
	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool
func (s *Store) Close() {
	s.pool.Close()
}

// Ping checks database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// UpsertComputer inserts a computer or replaces url/token for a known name.
// Re-adding resets last_seen to now and the status to offline until the next
// poll succeeds.
func (s *Store) UpsertComputer(ctx context.Context, name, url, token string) (*domains.Computer, error) {
	query := `
		INSERT INTO computers (name, url, token, last_seen, status)
		VALUES ($1, $2, $3, $4, 'offline')
		ON CONFLICT (name)
		DO UPDATE SET
			url = EXCLUDED.url,
			token = EXCLUDED.token,
			last_seen = EXCLUDED.last_seen,
			status = 'offline'
		RETURNING id, name, url, token, last_seen, status
	`

	var comp domains.Computer
	err := s.pool.QueryRow(ctx, query, name, url, token, time.Now()).Scan(
		&comp.ID, &comp.Name, &comp.URL, &comp.Token, &comp.LastSeen, &comp.Status,
	)
	if err != nil {
		return nil, err
	}
	return &comp, nil
}

// GetComputer retrieves a computer by id, or nil when unknown
func (s *Store) GetComputer(ctx context.Context, id int64) (*domains.Computer, error) {
	query := `SELECT id, name, url, token, last_seen, status FROM computers WHERE id = $1`

	var comp domains.Computer
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&comp.ID, &comp.Name, &comp.URL, &comp.Token, &comp.LastSeen, &comp.Status,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comp, nil
}

// ListComputers retrieves all computers ordered by name
func (s *Store) ListComputers(ctx context.Context) ([]domains.Computer, error) {
	query := `SELECT id, name, url, token, last_seen, status FROM computers ORDER BY name`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var computers []domains.Computer
	for rows.Next() {
		var comp domains.Computer
		err := rows.Scan(&comp.ID, &comp.Name, &comp.URL, &comp.Token, &comp.LastSeen, &comp.Status)
		if err != nil {
			return nil, err
		}
		computers = append(computers, comp)
	}
	return computers, rows.Err()
}

// MarkComputerOnline sets status=online and advances last_seen
func (s *Store) MarkComputerOnline(ctx context.Context, id int64, seenAt time.Time) error {
	query := `UPDATE computers SET status = 'online', last_seen = $1 WHERE id = $2`
	_, err := s.pool.Exec(ctx, query, seenAt, id)
	return err
}

// MarkComputerOffline sets status=offline; last_seen is left as it was
func (s *Store) MarkComputerOffline(ctx context.Context, id int64) error {
	query := `UPDATE computers SET status = 'offline' WHERE id = $1`
	_, err := s.pool.Exec(ctx, query, id)
	return err
}

// DeleteComputerData removes a computer and everything recorded for it.
// Dependent rows go first so the computer row never dangles references.
func (s *Store) DeleteComputerData(ctx context.Context, id int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM stats WHERE computer_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM processes WHERE computer_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM computers WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// InsertStat appends one stat sample
func (s *Store) InsertStat(ctx context.Context, sample *domains.StatSample) error {
	query := `
		INSERT INTO stats (
			computer_id, timestamp, cpu_percent,
			memory_total, memory_used, memory_percent,
			disk_total, disk_used, disk_percent,
			network_bytes_sent, network_bytes_recv,
			network_sent_per_sec, network_recv_per_sec
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.pool.Exec(ctx, query,
		sample.ComputerID, sample.Timestamp, sample.CPUPercent,
		sample.MemoryTotal, sample.MemoryUsed, sample.MemoryPercent,
		sample.DiskTotal, sample.DiskUsed, sample.DiskPercent,
		sample.NetworkBytesSent, sample.NetworkBytesRecv,
		sample.NetworkSentPerSec, sample.NetworkRecvPerSec,
	)
	return err
}

// InsertProcesses appends a batch of process samples for one computer and
// evicts everything beyond the newest processRetention rows.
func (s *Store) InsertProcesses(ctx context.Context, computerID int64, processes []domains.ProcessSample) error {
	if len(processes) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO processes (computer_id, timestamp, pid, name, cpu_percent, memory_percent, create_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, p := range processes {
		if _, err := tx.Exec(ctx, query,
			computerID, p.Timestamp, p.PID, p.Name, p.CPUPercent, p.MemoryPercent, p.CreateTime,
		); err != nil {
			return err
		}
	}

	evict := `
		DELETE FROM processes
		WHERE computer_id = $1 AND id NOT IN (
			SELECT id FROM processes
			WHERE computer_id = $1
			ORDER BY timestamp DESC, id DESC
			LIMIT $2
		)
	`
	if _, err := tx.Exec(ctx, evict, computerID, processRetention); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// LatestStat retrieves the most recent stat sample for a computer, or nil
// when none is stored
func (s *Store) LatestStat(ctx context.Context, computerID int64) (*domains.StatSample, error) {
	query := `
		SELECT id, computer_id, timestamp, cpu_percent,
		       memory_total, memory_used, memory_percent,
		       disk_total, disk_used, disk_percent,
		       network_bytes_sent, network_bytes_recv,
		       network_sent_per_sec, network_recv_per_sec
		FROM stats
		WHERE computer_id = $1
		ORDER BY timestamp DESC
		LIMIT 1
	`

	var sample domains.StatSample
	err := s.pool.QueryRow(ctx, query, computerID).Scan(
		&sample.ID, &sample.ComputerID, &sample.Timestamp, &sample.CPUPercent,
		&sample.MemoryTotal, &sample.MemoryUsed, &sample.MemoryPercent,
		&sample.DiskTotal, &sample.DiskUsed, &sample.DiskPercent,
		&sample.NetworkBytesSent, &sample.NetworkBytesRecv,
		&sample.NetworkSentPerSec, &sample.NetworkRecvPerSec,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sample, nil
}

// StatHistory retrieves samples since the given instant (inclusive), oldest
// first
func (s *Store) StatHistory(ctx context.Context, computerID int64, since time.Time) ([]domains.StatSample, error) {
	query := `
		SELECT id, computer_id, timestamp, cpu_percent,
		       memory_total, memory_used, memory_percent,
		       disk_total, disk_used, disk_percent,
		       network_bytes_sent, network_bytes_recv,
		       network_sent_per_sec, network_recv_per_sec
		FROM stats
		WHERE computer_id = $1 AND timestamp >= $2
		ORDER BY timestamp ASC
	`

	rows, err := s.pool.Query(ctx, query, computerID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []domains.StatSample
	for rows.Next() {
		var sample domains.StatSample
		err := rows.Scan(
			&sample.ID, &sample.ComputerID, &sample.Timestamp, &sample.CPUPercent,
			&sample.MemoryTotal, &sample.MemoryUsed, &sample.MemoryPercent,
			&sample.DiskTotal, &sample.DiskUsed, &sample.DiskPercent,
			&sample.NetworkBytesSent, &sample.NetworkBytesRecv,
			&sample.NetworkSentPerSec, &sample.NetworkRecvPerSec,
		)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

// LatestProcesses retrieves process rows recorded within the trailing window,
// newest sample first, highest CPU first within a sample, capped at 20 rows
func (s *Store) LatestProcesses(ctx context.Context, computerID int64, window time.Duration) ([]domains.ProcessSample, error) {
	query := `
		SELECT id, computer_id, timestamp, pid, name, cpu_percent, memory_percent, create_time
		FROM processes
		WHERE computer_id = $1 AND timestamp >= $2
		ORDER BY timestamp DESC, cpu_percent DESC
		LIMIT 20
	`

	rows, err := s.pool.Query(ctx, query, computerID, time.Now().Add(-window))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var processes []domains.ProcessSample
	for rows.Next() {
		var p domains.ProcessSample
		err := rows.Scan(
			&p.ID, &p.ComputerID, &p.Timestamp, &p.PID, &p.Name,
			&p.CPUPercent, &p.MemoryPercent, &p.CreateTime,
		)
		if err != nil {
			return nil, err
		}
		processes = append(processes, p)
	}
	return processes, rows.Err()
}

// PruneStats deletes stat samples older than the given instant and reports
// how many rows went away
func (s *Store) PruneStats(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM stats WHERE timestamp < $1`, olderThan)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// AuthenticateUser checks a username/password-hash pair against the users
// table
func (s *Store) AuthenticateUser(ctx context.Context, username, passwordHash string) (bool, error) {
	query := `SELECT id FROM users WHERE username = $1 AND password_hash = $2`

	var id int64
	err := s.pool.QueryRow(ctx, query, username, passwordHash).Scan(&id)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateUserPassword replaces a user's stored password hash
func (s *Store) UpdateUserPassword(ctx context.Context, username, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1 WHERE username = $2`
	_, err := s.pool.Exec(ctx, query, passwordHash, username)
	return err
}
