package docstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"
)

// unreachablePostgres returns a store whose pool points at a closed port.
// sql.Open does not dial, so no server is needed.
func unreachablePostgres(t *testing.T) *Postgres {
	t.Helper()
	db, err := sql.Open("pgx", "postgres://fwmod@127.0.0.1:1/fwmod?connect_timeout=2")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &Postgres{db: db, table: DefaultTable}
}

func TestPostgres_SchemaRetriedAfterFailure(t *testing.T) {
	p := unreachablePostgres(t)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.IDs(canceled, FirmwareModuleDB); !errors.Is(err, context.Canceled) {
		t.Fatalf("IDs(canceled) error = %v, want context.Canceled", err)
	}
	if p.schemaReady {
		t.Fatal("schema marked ready after a failed attempt")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := p.IDs(ctx, FirmwareModuleDB)
	if err == nil {
		t.Fatal("expected connection error")
	}
	if errors.Is(err, context.Canceled) {
		t.Errorf("IDs() error = %v, want a fresh attempt instead of the earlier cancellation", err)
	}
}
