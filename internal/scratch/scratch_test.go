package scratch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())

	s.Set("scratch.tbis", "deploy notes\nline two")

	if got := s.Get("scratch.tbis"); got != "deploy notes\nline two" {
		t.Errorf("Get() = %q", got)
	}
}

func TestStoreMissingKeyIsEmpty(t *testing.T) {
	s := NewStore(t.TempDir())

	if got := s.Get("never-written"); got != "" {
		t.Errorf("Get() on missing key = %q, want empty", got)
	}
}

func TestStoreSanitizesKeys(t *testing.T) {
	s := NewStore(t.TempDir())

	s.Set("../../etc/passwd", "nope")

	if got := s.Get("../../etc/passwd"); got != "nope" {
		t.Errorf("sanitized key should still round-trip, got %q", got)
	}
	if got := s.Get(".._.._etc_passwd"); got != "nope" {
		t.Errorf("expected traversal characters flattened, got %q", got)
	}
}

func TestStoreSwallowsWriteFailures(t *testing.T) {
	// A regular file where the directory should be makes MkdirAll fail.
	blocked := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(blocked, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewStore(blocked)

	// Set must not panic or surface the failure.
	s.Set("key", "value")
	if got := s.Get("key"); got != "" {
		t.Errorf("Get() after failed Set = %q, want empty", got)
	}
}
