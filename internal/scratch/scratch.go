// Package scratch is a best-effort key-value text store for the panel's
// per-tab notes. Storage failures are swallowed: losing a scratch note is
// never worth interrupting the operator.
package scratch

import (
	"os"
	"path/filepath"
	"strings"
)

// Store persists one text file per key under a directory.
type Store struct {
	dir string
}

// DefaultDir returns the scratch directory under the user's home.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".radcontrol", "scratch")
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Get returns the stored text for a key, or empty on any failure.
func (s *Store) Get(key string) string {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return ""
	}
	return string(data)
}

// Set stores text under a key, best-effort.
func (s *Store) Set(key, text string) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return
	}
	_ = os.WriteFile(s.path(key), []byte(text), 0o644)
}

// path maps a key to a file name, replacing anything that could escape the
// scratch directory.
func (s *Store) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(s.dir, safe+".txt")
}
