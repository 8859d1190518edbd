package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver
	"github.com/jmoiron/sqlx"

	vherrors "github.com/ksyq12/rproxy/internal/errors"
	"github.com/ksyq12/rproxy/internal/model"
)

// domainColumns maps nullable panel columns onto DomainRecord
const domainColumns = `
	domain_id, domain, type,
	COALESCE(parent_domain_id, 0) AS parent_domain_id,
	COALESCE(ip_address, '') AS ip_address,
	COALESCE(ipv6_address, '') AS ipv6_address,
	COALESCE(document_root, '') AS document_root,
	COALESCE(ssl, 'n') AS ssl,
	COALESCE(ssl_domain, '') AS ssl_domain,
	COALESCE(ssl_letsencrypt, 'n') AS ssl_letsencrypt,
	COALESCE(ssl_action, '') AS ssl_action,
	COALESCE(redirect_type, '') AS redirect_type,
	COALESCE(redirect_path, '') AS redirect_path,
	COALESCE(seo_redirect, '') AS seo_redirect,
	COALESCE(subdomain, '') AS subdomain,
	COALESCE(active, 'n') AS active,
	COALESCE(nginx_directives, '') AS nginx_directives,
	COALESCE(errordocs, 'n') AS errordocs,
	COALESCE(web_folder, '') AS web_folder,
	COALESCE(sys_userid, 0) AS sys_userid`

const (
	queryDomainByID = `SELECT` + domainColumns + `
	FROM web_domain WHERE domain_id = $1`

	queryActiveChildren = `SELECT` + domainColumns + `
	FROM web_domain
	WHERE parent_domain_id = $1 AND active = 'y' AND type <> 'vhostsubdomain'
	ORDER BY domain_id`

	queryTopLevelByClient = `SELECT` + domainColumns + `
	FROM web_domain
	WHERE sys_userid = $1 AND parent_domain_id = 0
	ORDER BY domain_id`

	queryDomains = `SELECT` + domainColumns + `
	FROM web_domain ORDER BY domain_id`

	queryWebConfig = `
	SELECT COALESCE(website_basedir, '') AS website_basedir,
	       COALESCE(website_symlinks_rel, 'n') AS website_symlinks_rel
	FROM server_web_config WHERE server_id = $1`
)

// SQL reads records from the panel database
type SQL struct {
	db *sqlx.DB
}

// NewSQL wraps an open database handle
func NewSQL(db *sqlx.DB) *SQL {
	return &SQL{db: db}
}

// OpenSQL connects to a PostgreSQL database through the pgx driver
func OpenSQL(ctx context.Context, dsn string) (*SQL, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, vherrors.Wrap(vherrors.ErrCodeConfig, "failed to connect to store", err)
	}
	return NewSQL(db), nil
}

// DomainByID implements Store
func (s *SQL) DomainByID(ctx context.Context, id int64) (*model.DomainRecord, error) {
	var rec model.DomainRecord
	if err := s.db.GetContext(ctx, &rec, queryDomainByID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vherrors.NotFound("domain", id)
		}
		return nil, fmt.Errorf("query domain %d: %w", id, err)
	}
	return &rec, nil
}

// ActiveChildren implements Store
func (s *SQL) ActiveChildren(ctx context.Context, parentID int64) ([]model.DomainRecord, error) {
	var recs []model.DomainRecord
	if err := s.db.SelectContext(ctx, &recs, queryActiveChildren, parentID); err != nil {
		return nil, fmt.Errorf("query children of %d: %w", parentID, err)
	}
	return recs, nil
}

// TopLevelDomainsByClient implements Store
func (s *SQL) TopLevelDomainsByClient(ctx context.Context, clientID int64) ([]model.DomainRecord, error) {
	var recs []model.DomainRecord
	if err := s.db.SelectContext(ctx, &recs, queryTopLevelByClient, clientID); err != nil {
		return nil, fmt.Errorf("query domains of client %d: %w", clientID, err)
	}
	return recs, nil
}

// WebConfig implements Store. A server without a row gets nil.
func (s *SQL) WebConfig(ctx context.Context, serverID int64) (*model.WebConfig, error) {
	var web model.WebConfig
	if err := s.db.GetContext(ctx, &web, queryWebConfig, serverID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query web config of server %d: %w", serverID, err)
	}
	return &web, nil
}

// Domains implements Store
func (s *SQL) Domains(ctx context.Context) ([]model.DomainRecord, error) {
	var recs []model.DomainRecord
	if err := s.db.SelectContext(ctx, &recs, queryDomains); err != nil {
		return nil, fmt.Errorf("query domains: %w", err)
	}
	return recs, nil
}

// Close implements Store
func (s *SQL) Close() error {
	return s.db.Close()
}
