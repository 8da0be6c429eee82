package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"fleetmon/app/domains"
)

// testStore connects to the database named by TEST_DATABASE_URL and applies
// migrations. Tests are skipped when the variable is unset so the suite runs
// without infrastructure.
func testStore(t *testing.T) *Store {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	if err := RunMigrations(connString, "file://migrations"); err != nil {
		t.Fatalf("migrations: %v", err)
	}

	store, err := NewStore(connString)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(store.Close)
	return store
}

func addTestComputer(t *testing.T, store *Store, name string) *domains.Computer {
	t.Helper()
	ctx := context.Background()

	comp, err := store.UpsertComputer(ctx, name, "http://"+name+":8000", "tok-"+name)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		store.DeleteComputerData(context.Background(), comp.ID)
	})
	return comp
}

func sampleAt(computerID int64, ts time.Time) *domains.StatSample {
	return &domains.StatSample{
		ComputerID:       computerID,
		Timestamp:        ts,
		CPUPercent:       10,
		MemoryTotal:      100,
		MemoryUsed:       50,
		MemoryPercent:    50,
		DiskTotal:        100,
		DiskUsed:         20,
		DiskPercent:      20,
		NetworkBytesSent: 1,
		NetworkBytesRecv: 1,
	}
}

func TestUpsertComputerIdempotentOnName(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	first := addTestComputer(t, store, "upsert-test")

	second, err := store.UpsertComputer(ctx, "upsert-test", "http://new-url:9000", "new-token")
	if err != nil {
		t.Fatal(err)
	}

	if second.ID != first.ID {
		t.Errorf("re-adding changed id: %d -> %d", first.ID, second.ID)
	}
	if second.URL != "http://new-url:9000" || second.Token != "new-token" {
		t.Errorf("url/token not replaced: %+v", second)
	}
	if second.Status != domains.StatusOffline {
		t.Errorf("status = %q, want offline until next poll", second.Status)
	}
}

func TestStatHistoryWindowAndOrder(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	comp := addTestComputer(t, store, "history-test")

	now := time.Now()
	for _, age := range []time.Duration{30 * time.Hour, 10 * time.Hour, 2 * time.Hour} {
		if err := store.InsertStat(ctx, sampleAt(comp.ID, now.Add(-age))); err != nil {
			t.Fatal(err)
		}
	}

	samples, err := store.StatHistory(ctx, comp.ID, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	if len(samples) != 2 {
		t.Fatalf("samples in window = %d, want 2", len(samples))
	}
	if !samples[0].Timestamp.Before(samples[1].Timestamp) {
		t.Error("history not in ascending timestamp order")
	}
}

func TestProcessRetentionPerComputer(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	crowded := addTestComputer(t, store, "retention-test-a")
	quiet := addTestComputer(t, store, "retention-test-b")

	now := time.Now()
	quietRows := []domains.ProcessSample{
		{ComputerID: quiet.ID, Timestamp: now, PID: 1, Name: "init", CPUPercent: 0, MemoryPercent: 0, CreateTime: 0},
	}
	if err := store.InsertProcesses(ctx, quiet.ID, quietRows); err != nil {
		t.Fatal(err)
	}

	// 1001 rows in batches; only the newest 1000 must survive.
	batch := make([]domains.ProcessSample, 0, 91)
	inserted := 0
	for inserted < 1001 {
		batch = batch[:0]
		for len(batch) < 91 && inserted < 1001 {
			batch = append(batch, domains.ProcessSample{
				ComputerID:    crowded.ID,
				Timestamp:     now.Add(time.Duration(inserted) * time.Millisecond),
				PID:           int64(inserted),
				Name:          fmt.Sprintf("proc-%d", inserted),
				CPUPercent:    1,
				MemoryPercent: 1,
				CreateTime:    0,
			})
			inserted++
		}
		if err := store.InsertProcesses(ctx, crowded.ID, batch); err != nil {
			t.Fatal(err)
		}
	}

	var count int
	err := store.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM processes WHERE computer_id = $1`, crowded.ID).Scan(&count)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1000 {
		t.Errorf("rows after 1001 inserts = %d, want 1000", count)
	}

	// The evicted row is the oldest one.
	var oldest int64
	err = store.pool.QueryRow(ctx,
		`SELECT MIN(pid) FROM processes WHERE computer_id = $1`, crowded.ID).Scan(&oldest)
	if err != nil {
		t.Fatal(err)
	}
	if oldest != 1 {
		t.Errorf("oldest surviving pid = %d, want 1", oldest)
	}

	// The other computer's rows are untouched.
	procs, err := store.LatestProcesses(ctx, quiet.ID, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if len(procs) != 1 {
		t.Errorf("quiet computer rows = %d, want 1", len(procs))
	}
}

func TestDeleteComputerCascades(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	comp := addTestComputer(t, store, "delete-test")

	now := time.Now()
	if err := store.InsertStat(ctx, sampleAt(comp.ID, now)); err != nil {
		t.Fatal(err)
	}
	rows := []domains.ProcessSample{
		{ComputerID: comp.ID, Timestamp: now, PID: 1, Name: "init", CPUPercent: 0, MemoryPercent: 0, CreateTime: 0},
	}
	if err := store.InsertProcesses(ctx, comp.ID, rows); err != nil {
		t.Fatal(err)
	}

	if err := store.DeleteComputerData(ctx, comp.ID); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetComputer(ctx, comp.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("computer still present after delete")
	}

	latest, err := store.LatestStat(ctx, comp.ID)
	if err != nil {
		t.Fatal(err)
	}
	if latest != nil {
		t.Error("stat rows survived delete")
	}

	procs, err := store.LatestProcesses(ctx, comp.ID, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if len(procs) != 0 {
		t.Error("process rows survived delete")
	}
}

func TestLatestStat(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	comp := addTestComputer(t, store, "latest-test")

	now := time.Now()
	older := sampleAt(comp.ID, now.Add(-time.Minute))
	newer := sampleAt(comp.ID, now)
	newer.CPUPercent = 99

	if err := store.InsertStat(ctx, older); err != nil {
		t.Fatal(err)
	}
	if err := store.InsertStat(ctx, newer); err != nil {
		t.Fatal(err)
	}

	latest, err := store.LatestStat(ctx, comp.ID)
	if err != nil {
		t.Fatal(err)
	}
	if latest == nil || latest.CPUPercent != 99 {
		t.Errorf("latest = %+v, want the newer sample", latest)
	}
}
