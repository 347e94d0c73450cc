// Package core defines the slot abstractions shared by the slot facade and
// the concrete backends under internal/infra/slot.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Driver identifies a concrete slot backend implementation.
type Driver string

const (
	DriverMemory   Driver = "memory"   // in-memory (tests, ephemeral)
	DriverFS       Driver = "fs"       // one file per key under a directory
	DriverSQLite   Driver = "sqlite"   // embedded sqlite file (default)
	DriverPostgres Driver = "postgres" // PostgreSQL server
	DriverS3       Driver = "s3"       // S3 / MinIO compatible bucket
)

// Drivers lists every supported backend.
var Drivers = []Driver{DriverMemory, DriverFS, DriverSQLite, DriverPostgres, DriverS3}

// Store is a durable string-keyed store of serialized snapshots. Get returns
// ok=false for a key that was never written.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Driver() Driver
	Close() error
}

// ErrEmptyKey is returned for a blank key.
var ErrEmptyKey = errors.New("slot: empty key")

// CheckKey rejects keys no backend can address.
func CheckKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	if strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return fmt.Errorf("slot: invalid key %q", key)
	}
	return nil
}
