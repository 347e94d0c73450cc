// Package slot re-exports the slot abstractions and selects a concrete
// backend from configuration. It is the only package allowed to import the
// backends under internal/infra/slot.
package slot

import "myersadmin/internal/slot/core"

type (
	// Driver identifies a slot backend driver.
	Driver = core.Driver
	// Store is the interface implemented by every slot backend.
	Store = core.Store
)

const (
	DriverMemory   = core.DriverMemory
	DriverFS       = core.DriverFS
	DriverSQLite   = core.DriverSQLite
	DriverPostgres = core.DriverPostgres
	DriverS3       = core.DriverS3
)

// ErrEmptyKey is returned for a blank key.
var ErrEmptyKey = core.ErrEmptyKey
