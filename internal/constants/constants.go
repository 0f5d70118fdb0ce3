package constants

import "time"

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
	ImportTimeout      = 5 * time.Minute
	MigrationTimeout   = 30 * time.Second
)

const (
	DBMaxOpenConns    = 1
	DBMaxIdleConns    = 1
	DBConnMaxLifetime = 0
	DBMaxIdleTime     = 0
)

const (
	// SchemaVersion is the version the migration engine brings the local store to.
	SchemaVersion = 3
)

const (
	ImportConcurrency   = 8
	MigrationStatements = 4
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	TabTMaxConnsPerHost     = 16
	TabTMaxIdleConnDuration = 1 * time.Minute
)
