package reconciliation

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"order-sync/core/database"
	"order-sync/core/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type fakeRunner struct {
	report *reconcile.RunReport
	err    error
	block  chan struct{}
	calls  atomic.Int32
}

func (f *fakeRunner) Run(ctx context.Context) (*reconcile.RunReport, error) {
	f.calls.Add(1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.report, f.err
}

type fakeCache struct {
	entries []string
	err     error
}

func (f *fakeCache) Path() string { return "data/shipped-orders.json" }

func (f *fakeCache) Entries() ([]string, error) {
	return f.entries, f.err
}

func sampleReport(id string, started time.Time) *reconcile.RunReport {
	report := &reconcile.RunReport{
		ID:         id,
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Second),
		Window:     reconcile.Window{From: started.AddDate(-1, 0, 0), To: started},
		Results: []reconcile.Result{
			{ExternalCode: "X1", State: reconcile.StateSettled, Actions: []reconcile.Action{reconcile.ActionPack, reconcile.ActionFulfill}},
			{ExternalCode: "X2", State: reconcile.StateSkipped, Reason: "already settled"},
			{ExternalCode: "X3", State: reconcile.StateFailed, Reason: "find order: order not found on platform"},
		},
	}
	report.Summary = reconcile.Summarize(report.Results)
	return report
}

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	return db
}

func newTestJournal(t *testing.T) *Journal {
	t.Helper()
	j := NewJournal(newSQLiteDB(t))
	require.NoError(t, j.Migrate(context.Background()))
	return j
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}
