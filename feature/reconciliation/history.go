package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"order-sync/core/database"
	"order-sync/core/reconcile"
	"order-sync/feature/reconciliation/models"

	"gorm.io/gorm"
)

// ErrRunNotFound is returned when no journaled run matches an ID.
var ErrRunNotFound = errors.New("sync run not found")

// History records finished runs and serves them back.
type History interface {
	Save(ctx context.Context, report *reconcile.RunReport, runErr error) error
	List(ctx context.Context, limit int) ([]models.SyncRun, error)
	Get(ctx context.Context, id string) (*models.SyncRun, error)
}

// Journal is a History backed by a SQL database through gorm.
type Journal struct {
	db *gorm.DB
}

// NewJournal creates a journal on db. Call Migrate before first use.
func NewJournal(db *gorm.DB) *Journal {
	return &Journal{db: db}
}

// Migrate creates or updates the journal tables.
func (j *Journal) Migrate(ctx context.Context) error {
	if err := j.db.WithContext(ctx).AutoMigrate(&models.SyncRun{}, &models.OrderOutcome{}); err != nil {
		return fmt.Errorf("migrate journal: %w", err)
	}
	return nil
}

// Verify returns the journal columns missing from the database, as "table.column".
func (j *Journal) Verify(ctx context.Context) ([]string, error) {
	db := j.db.WithContext(ctx)
	var missing []string
	for table, columns := range map[string][]string{
		models.SyncRun{}.TableName():      models.RunColumns,
		models.OrderOutcome{}.TableName(): models.OutcomeColumns,
	} {
		cols, err := database.MissingColumns(db, table, columns)
		if err != nil {
			return nil, err
		}
		for _, c := range cols {
			missing = append(missing, table+"."+c)
		}
	}
	sort.Strings(missing)
	return missing, nil
}

// Save stores the run and its per-order outcomes in one transaction.
func (j *Journal) Save(ctx context.Context, report *reconcile.RunReport, runErr error) error {
	run := models.FromReport(report, runErr)
	outcomes := run.Outcomes
	run.Outcomes = nil

	return j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return fmt.Errorf("insert run %s: %w", run.ID, err)
		}
		if len(outcomes) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(outcomes, 200).Error; err != nil {
			return fmt.Errorf("insert outcomes for run %s: %w", run.ID, err)
		}
		return nil
	})
}

// List returns up to limit runs, newest first, without outcomes. A
// non-positive limit returns every run.
func (j *Journal) List(ctx context.Context, limit int) ([]models.SyncRun, error) {
	if limit <= 0 {
		limit = -1
	}
	var runs []models.SyncRun
	err := j.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Get returns one run with its outcomes in listing order.
func (j *Journal) Get(ctx context.Context, id string) (*models.SyncRun, error) {
	var run models.SyncRun
	err := j.db.WithContext(ctx).
		Preload("Outcomes", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return &run, nil
}

// MemoryHistory keeps the most recent runs in memory. It is used when the
// journal database is disabled.
type MemoryHistory struct {
	mu   sync.RWMutex
	size int
	runs []models.SyncRun // newest first
}

// NewMemoryHistory creates a history that retains up to size runs.
func NewMemoryHistory(size int) *MemoryHistory {
	if size <= 0 {
		size = 50
	}
	return &MemoryHistory{size: size}
}

func (m *MemoryHistory) Save(_ context.Context, report *reconcile.RunReport, runErr error) error {
	run := models.FromReport(report, runErr)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append([]models.SyncRun{run}, m.runs...)
	if len(m.runs) > m.size {
		m.runs = m.runs[:m.size]
	}
	return nil
}

func (m *MemoryHistory) List(_ context.Context, limit int) ([]models.SyncRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 || limit > len(m.runs) {
		limit = len(m.runs)
	}
	out := make([]models.SyncRun, limit)
	for i := range out {
		out[i] = m.runs[i]
		out[i].Outcomes = nil
	}
	return out, nil
}

func (m *MemoryHistory) Get(_ context.Context, id string) (*models.SyncRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.runs {
		if r.ID == id {
			run := r
			return &run, nil
		}
	}
	return nil, ErrRunNotFound
}
