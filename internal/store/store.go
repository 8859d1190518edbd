// Package store provides read-only access to the hosting panel's domain
// records and server web configuration.
//
// Three implementations exist: SQL reads the panel database through sqlx and
// the pgx driver, File reads a YAML snapshot, and Memory backs both File and
// the tests.
package store

import (
	"context"
	"fmt"

	"github.com/ksyq12/rproxy/internal/config"
	"github.com/ksyq12/rproxy/internal/model"
)

// Store is the query contract of the reconciler
type Store interface {
	// DomainByID returns a single record. Missing records are NOT_FOUND errors.
	DomainByID(ctx context.Context, id int64) (*model.DomainRecord, error)

	// ActiveChildren returns the active alias and subdomain records of a
	// parent in discovery order. vhostsubdomain records are excluded.
	ActiveChildren(ctx context.Context, parentID int64) ([]model.DomainRecord, error)

	// TopLevelDomainsByClient returns the records with no parent owned by a client
	TopLevelDomainsByClient(ctx context.Context, clientID int64) ([]model.DomainRecord, error)

	// WebConfig returns the web configuration of a server
	WebConfig(ctx context.Context, serverID int64) (*model.WebConfig, error)

	// Domains returns all records ordered by id
	Domains(ctx context.Context) ([]model.DomainRecord, error)

	Close() error
}

// Open opens the store selected by cfg
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case config.StoreFile:
		m, err := OpenFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.StorePostgres:
		s, err := OpenSQL(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Driver)
	}
}
