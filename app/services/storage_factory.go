package services

import (
	"fmt"

	"fleetmon/app/clients"
	"fleetmon/storage/postgres"
)

// OpenStorage connects to Postgres and brings the schema up to date before
// handing the store out behind the StorageAdapter interface. Migrations run
// here so no caller can touch an unmigrated database.
func OpenStorage(connString, migrationsURL string) (clients.StorageAdapter, error) {
	if err := postgres.RunMigrations(connString, migrationsURL); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	store, err := postgres.NewStore(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres store: %w", err)
	}
	return store, nil
}
