package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"fleetmon/app/clients"
)

// AuthService verifies dashboard user credentials against the users table
type AuthService struct {
	storage clients.StorageAdapter
}

// NewAuthService creates a new auth service
func NewAuthService(storage clients.StorageAdapter) *AuthService {
	return &AuthService{
		storage: storage,
	}
}

// Authenticate checks a username/password pair
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	return s.storage.AuthenticateUser(ctx, username, HashPassword(password))
}

// ChangePassword replaces a user's password after verifying the current one
func (s *AuthService) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	ok, err := s.Authenticate(ctx, username, currentPassword)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("current password is incorrect")
	}
	return s.storage.UpdateUserPassword(ctx, username, HashPassword(newPassword))
}

// HashPassword hashes a password for storage
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
