package agent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestLoadOrCreateTokenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.txt")

	first, err := LoadOrCreateToken(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Errorf("generated token %q is not a uuid: %v", first, err)
	}

	second, err := LoadOrCreateToken(path)
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Errorf("token changed across calls: %q != %q", second, first)
	}
}

func TestLoadOrCreateTokenReadsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.txt")
	if err := os.WriteFile(path, []byte("  existing-token\n"), 0600); err != nil {
		t.Fatal(err)
	}

	token, err := LoadOrCreateToken(path)
	if err != nil {
		t.Fatal(err)
	}
	if token != "existing-token" {
		t.Errorf("token = %q, want trimmed file contents", token)
	}
}

func TestLoadOrCreateTokenReplacesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.txt")
	if err := os.WriteFile(path, []byte("\n"), 0600); err != nil {
		t.Fatal(err)
	}

	token, err := LoadOrCreateToken(path)
	if err != nil {
		t.Fatal(err)
	}
	if token == "" {
		t.Error("empty file should yield a fresh token")
	}
}
