package slot

import (
	"context"
	"fmt"

	"myersadmin/internal/config"
	fsstore "myersadmin/internal/infra/slot/fs"
	memorystore "myersadmin/internal/infra/slot/memory"
	"myersadmin/internal/infra/slot/postgres"
	s3store "myersadmin/internal/infra/slot/s3"
	"myersadmin/internal/infra/slot/sqlite"
)

// Open selects a Store implementation from cfg.StorageDriver.
//
//	memory   ephemeral, lost on exit
//	fs       cfg.FSRoot directory, one JSON file per key
//	sqlite   cfg.SQLitePath database file (default)
//	postgres cfg.PostgresDSN
//	s3       cfg.S3Bucket with optional region, endpoint, path style and prefix
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	driver := Driver(cfg.StorageDriver)
	if driver == "" {
		driver = DriverSQLite
	}
	switch driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFS:
		return NewFilesystem(cfg.FSRoot)
	case DriverSQLite:
		return NewSQLite(ctx, cfg.SQLitePath)
	case DriverPostgres:
		return NewPostgres(ctx, cfg.PostgresDSN)
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
			Prefix:    cfg.S3Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// NewMemory returns an in-memory Store suitable for tests.
func NewMemory() Store { return memorystore.New() }

// NewFilesystem constructs a directory-backed Store rooted at root.
func NewFilesystem(root string) (Store, error) {
	store, err := fsstore.New(root)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewSQLite opens a sqlite-backed Store at path.
func NewSQLite(ctx context.Context, path string) (Store, error) {
	store, err := sqlite.New(ctx, path)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewPostgres opens a Postgres-backed Store using dsn.
func NewPostgres(ctx context.Context, dsn string) (Store, error) {
	store, err := postgres.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// S3Config re-exports the S3 backend configuration.
type S3Config = s3store.Config

// NewS3 constructs an S3-backed Store.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) {
	store, err := s3store.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewMockS3ForTests exposes the in-memory S3 fake for cross-package tests.
func NewMockS3ForTests(prefix string) Store { return s3store.NewMockForTests(prefix) }
