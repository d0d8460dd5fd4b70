// Package storage contains the backend-agnostic repository contract and the
// factory through which concrete database backends are selected at runtime.
//
// Backends (Postgres, MSSQL, MySQL, SQLite) register themselves with the
// factory from their init functions; importing csvload/internal/storage/all
// (typically as a blank import in the wiring layer) makes every built-in
// backend available. The rest of the application depends only on Repository
// and never on a concrete driver.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Config identifies the backend and the destination of a load.
type Config struct {
	// Kind selects the registered backend, e.g. "postgres", "mssql",
	// "mysql", "sqlite".
	Kind string

	// DSN is the driver connection string.
	DSN string

	// Table is the destination table name, optionally schema-qualified
	// ("dbo.Customers", "public.events").
	Table string
}

// Repository is an open, exclusively-owned connection to one destination
// table. It is acquired immediately before a load and closed right after;
// it is never pooled across runs.
type Repository interface {
	// Ping performs a trivial round-trip to verify the connection is live.
	Ping(ctx context.Context) error

	// CopyFrom appends rows into the configured table using the backend's
	// most efficient bulk primitive. Rows are aligned to columns by index.
	// It returns the number of rows the backend reports as inserted.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Exec runs an arbitrary SQL statement (typically test/DDL plumbing).
	Exec(ctx context.Context, sql string) error

	// Close releases the underlying connection or pool.
	Close()
}

// Factory constructs a Repository for a Config. Backends register one per kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for the given backend kind.
// It is typically called from backend packages' init functions.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Repository for cfg.Kind, or fails with the list of known kinds.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unsupported kind %q (registered: %v)", cfg.Kind, ListKinds())
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered backend kinds in sorted order.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
