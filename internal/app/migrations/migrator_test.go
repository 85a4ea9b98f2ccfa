package migrations

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// recordingTx captures the statements executed through a transaction.
// Methods beyond Exec panic via the embedded nil interface.
type recordingTx struct {
	pgx.Tx
	execSQL []string
}

func (t *recordingTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.execSQL = append(t.execSQL, sql)
	return pgconn.CommandTag{}, nil
}

func TestRecordMigrationWritesThroughTransaction(t *testing.T) {
	t.Parallel()

	// The nil pool makes any write outside the transaction panic.
	m := NewMigrator(nil)
	tx := &recordingTx{}

	if err := m.recordMigration(context.Background(), tx, "001"); err != nil {
		t.Fatalf("recordMigration() unexpected error: %v", err)
	}
	if len(tx.execSQL) != 1 {
		t.Fatalf("statements through tx = %d, want 1", len(tx.execSQL))
	}
	if !strings.Contains(tx.execSQL[0], "INSERT INTO schema_migrations") {
		t.Errorf("tx statement = %q, want schema_migrations insert", tx.execSQL[0])
	}
}
