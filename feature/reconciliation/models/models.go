package models

import (
	"strings"
	"time"

	"order-sync/core/reconcile"
)

// SyncRun is one journaled sync run.
type SyncRun struct {
	ID         string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	StartedAt  time.Time `gorm:"column:started_at;index" json:"started_at"`
	FinishedAt time.Time `gorm:"column:finished_at" json:"finished_at"`
	WindowFrom time.Time `gorm:"column:window_from" json:"window_from"`
	WindowTo   time.Time `gorm:"column:window_to" json:"window_to"`
	Total      int       `gorm:"column:total" json:"total"`
	Settled    int       `gorm:"column:settled" json:"settled"`
	Skipped    int       `gorm:"column:skipped" json:"skipped"`
	Failed     int       `gorm:"column:failed" json:"failed"`
	// Error is the fatal error that aborted the run, empty on success.
	Error string `gorm:"column:error;size:1024" json:"error,omitempty"`

	Outcomes []OrderOutcome `gorm:"foreignKey:RunID" json:"outcomes,omitempty"`
}

// TableName overrides the table name.
func (SyncRun) TableName() string {
	return "sync_runs"
}

// OrderOutcome is the journaled result of one order within a run.
type OrderOutcome struct {
	ID           uint   `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	RunID        string `gorm:"column:run_id;size:36;index" json:"-"`
	Position     int    `gorm:"column:position" json:"position"`
	ExternalCode string `gorm:"column:external_code;size:64;index" json:"external_code"`
	State        string `gorm:"column:state;size:16" json:"state"`
	Actions      string `gorm:"column:actions;size:64" json:"actions"` // comma separated
	Reason       string `gorm:"column:reason;size:1024" json:"reason,omitempty"`
}

// TableName overrides the table name.
func (OrderOutcome) TableName() string {
	return "sync_order_outcomes"
}

// RunColumns and OutcomeColumns are the columns the journal relies on.
var (
	RunColumns     = []string{"id", "started_at", "finished_at", "window_from", "window_to", "total", "settled", "skipped", "failed", "error"}
	OutcomeColumns = []string{"id", "run_id", "position", "external_code", "state", "actions", "reason"}
)

// FromReport converts a run report into its journal row. runErr is the fatal
// error returned with the report, if any.
func FromReport(report *reconcile.RunReport, runErr error) SyncRun {
	run := SyncRun{
		ID:         report.ID,
		StartedAt:  report.StartedAt.UTC(),
		FinishedAt: report.FinishedAt.UTC(),
		WindowFrom: report.Window.From.UTC(),
		WindowTo:   report.Window.To.UTC(),
		Total:      report.Summary.Total,
		Settled:    report.Summary.Settled,
		Skipped:    report.Summary.Skipped,
		Failed:     report.Summary.Failed,
	}
	if runErr != nil {
		run.Error = truncate(runErr.Error(), 1024)
	}

	run.Outcomes = make([]OrderOutcome, 0, len(report.Results))
	for i, r := range report.Results {
		actions := make([]string, len(r.Actions))
		for j, a := range r.Actions {
			actions[j] = string(a)
		}
		run.Outcomes = append(run.Outcomes, OrderOutcome{
			RunID:        report.ID,
			Position:     i,
			ExternalCode: r.ExternalCode,
			State:        string(r.State),
			Actions:      strings.Join(actions, ","),
			Reason:       truncate(r.Reason, 1024),
		})
	}
	return run
}

// Summary returns the aggregate counts of the run.
func (r SyncRun) Summary() reconcile.RunSummary {
	return reconcile.RunSummary{Total: r.Total, Settled: r.Settled, Skipped: r.Skipped, Failed: r.Failed}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
