package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DefaultTable is the Postgres table used when PostgresConfig.Table is empty.
const DefaultTable = "fwmod_documents"

// Postgres stores documents in a single table keyed by (db, id).
type Postgres struct {
	db    *sql.DB
	table string

	schemaMu    sync.Mutex
	schemaReady bool
}

var (
	_ Store  = (*Postgres)(nil)
	_ Writer = (*Postgres)(nil)
)

// NewPostgres opens a connection pool and verifies it with a ping.
func NewPostgres(ctx context.Context, cfg PostgresConfig) (*Postgres, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("postgres config: %w", err)
	}
	db, err := sql.Open("pgx", strings.TrimSpace(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	table := cfg.Table
	if table == "" {
		table = DefaultTable
	}
	return &Postgres{db: db, table: table}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// ensureSchema creates the document table on first use. A failed attempt is
// retried by the next call.
func (p *Postgres) ensureSchema(ctx context.Context) error {
	p.schemaMu.Lock()
	defer p.schemaMu.Unlock()
	if p.schemaReady {
		return nil
	}
	if _, err := p.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+p.table+` (
		db   TEXT  NOT NULL,
		id   TEXT  NOT NULL,
		body JSONB NOT NULL,
		PRIMARY KEY (db, id)
	)`); err != nil {
		return err
	}
	p.schemaReady = true
	return nil
}

// IDs lists the document ids in db.
func (p *Postgres) IDs(ctx context.Context, db string) ([]string, error) {
	if err := p.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	rows, err := p.db.QueryContext(ctx, `SELECT id FROM `+p.table+` WHERE db = $1 ORDER BY id`, db)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", db, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list %s: %w", db, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", db, err)
	}
	return ids, nil
}

// Get returns the JSON body of db/id.
func (p *Postgres) Get(ctx context.Context, db, id string) ([]byte, error) {
	if err := p.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	var body []byte
	err := p.db.QueryRowContext(ctx, `SELECT body::text FROM `+p.table+` WHERE db = $1 AND id = $2`, db, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{DB: db, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", db, id, err)
	}
	return body, nil
}

// Put inserts or replaces db/id.
func (p *Postgres) Put(ctx context.Context, db, id string, body []byte) error {
	if err := p.ensureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	_, err := p.db.ExecContext(ctx, `INSERT INTO `+p.table+` (db, id, body) VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (db, id) DO UPDATE SET body = EXCLUDED.body`, db, id, string(body))
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", db, id, err)
	}
	return nil
}
