// Package fs stores each slot as a JSON file under a root directory.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"myersadmin/internal/slot/core"
)

// Store maps keys to <root>/<key>.json. Writes go to a temp file that is
// renamed into place so a reader never observes a partial snapshot.
type Store struct {
	root string
	mu   sync.Mutex
}

// New returns a filesystem-backed slot store rooted at root, creating it if
// needed.
func New(root string) (*Store, error) {
	if root == "" {
		root = "./myers-data"
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create slot root: %w", err)
	}
	return &Store{root: root}, nil
}

func (s *Store) Driver() core.Driver { return core.DriverFS }

// Root returns the directory holding the slot files.
func (s *Store) Root() string { return s.root }

func (s *Store) pathFor(key string) (string, error) {
	if err := core.CheckKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.root, key+".json"), nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return nil, false, err
	}
	// #nosec G304 -- key is validated by core.CheckKey and joined under root
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read slot %s: %w", key, err)
	}
	return data, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tmp, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("commit slot %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error { return nil }
