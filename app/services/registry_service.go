package services

import (
	"context"

	"fleetmon/app/clients"
	"fleetmon/app/domains"
)

// RegistryService handles CRUD over monitored computers
type RegistryService struct {
	storage clients.StorageAdapter
	rates   *RateTracker
}

// NewRegistryService creates a new registry service
func NewRegistryService(storage clients.StorageAdapter, rates *RateTracker) *RegistryService {
	return &RegistryService{
		storage: storage,
		rates:   rates,
	}
}

// Upsert adds a computer or, when the name is already known, replaces its
// URL and token. Either way the computer starts offline until the next poll.
func (s *RegistryService) Upsert(ctx context.Context, name, url, token string) (*domains.Computer, error) {
	return s.storage.UpsertComputer(ctx, name, url, token)
}

// List returns all computers ordered by name
func (s *RegistryService) List(ctx context.Context) ([]domains.Computer, error) {
	return s.storage.ListComputers(ctx)
}

// Get returns one computer, or nil when the id is unknown
func (s *RegistryService) Get(ctx context.Context, id int64) (*domains.Computer, error) {
	return s.storage.GetComputer(ctx, id)
}

// Remove deletes a computer and all of its stored samples. Returns the
// removed computer, or nil when the id is unknown.
func (s *RegistryService) Remove(ctx context.Context, id int64) (*domains.Computer, error) {
	comp, err := s.storage.GetComputer(ctx, id)
	if err != nil {
		return nil, err
	}
	if comp == nil {
		return nil, nil
	}

	if err := s.storage.DeleteComputerData(ctx, id); err != nil {
		return nil, err
	}
	s.rates.Forget(id)

	return comp, nil
}
