package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// Runs counts sync runs by outcome (ok, failed).
	Runs = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "order_sync_runs_total", Help: "Sync runs by outcome."},
		[]string{"status"},
	)
	// RunDuration records sync run durations in seconds.
	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "order_sync_run_duration_seconds", Help: "Sync run duration in seconds.", Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600}},
	)
	// OrdersProcessed counts orders by terminal state.
	OrdersProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "order_sync_orders_total", Help: "Reconciled orders by terminal state."},
		[]string{"state"},
	)
	// ActionsExecuted counts platform actions by action and result.
	ActionsExecuted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "order_sync_actions_total", Help: "Platform actions by action and result."},
		[]string{"action", "result"},
	)
)

var regOnce sync.Once

// Register adds the collectors to Registry. Safe to call more than once.
func Register() {
	regOnce.Do(func() {
		Registry.MustRegister(Runs)
		Registry.MustRegister(RunDuration)
		Registry.MustRegister(OrdersProcessed)
		Registry.MustRegister(ActionsExecuted)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
