package reconcile

import (
	"context"
	"fmt"
	"time"

	"order-sync/core/metrics"
	"order-sync/core/utils"

	"go.uber.org/zap"
)

// Processor reconciles a single order. It never returns an error: every
// failure is reported through Result.
type Processor interface {
	Process(ctx context.Context, order SourceOrder) Result
}

// Worker reconciles one order against the platform.
type Worker struct {
	platform Platform
	cache    Cache
	logger   *zap.Logger
	now      func() time.Time
}

// NewWorker creates a worker.
func NewWorker(platform Platform, cache Cache, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		platform: platform,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
	}
}

// Process drives one order to Skipped, Settled or Failed.
//
// Cached orders are skipped without querying the platform. Orders that are
// already shipped and paid, or whose Delivered action sequence completes, are
// added to the cache. Anything else is left for the next run.
func (w *Worker) Process(ctx context.Context, order SourceOrder) (result Result) {
	l := w.logger.With(zap.String("external_code", order.ExternalCode))
	result = Result{ExternalCode: order.ExternalCode}

	defer func() {
		if r := recover(); r != nil {
			result = w.fail(l, result, fmt.Errorf("panic: %v", r))
		}
		metrics.OrdersProcessed.WithLabelValues(string(result.State)).Inc()
	}()

	if w.cache.Contains(order.ExternalCode) {
		return skip(result, "already settled")
	}

	code := utils.StripWhitespace(order.ExternalCode)
	if code == "" {
		return w.fail(l, result, fmt.Errorf("%w: empty external code", ErrOrderNotFound))
	}

	target, err := w.platform.FindOrder(ctx, code)
	if err != nil {
		return w.fail(l, result, fmt.Errorf("find order: %w", err))
	}
	if target == nil {
		return w.fail(l, result, ErrOrderNotFound)
	}

	l = l.With(zap.String("order_id", target.ID), zap.String("number", target.Number))
	status := order.Status()
	l.Debug("Platform order state",
		zap.String("status", string(status)),
		zap.String("shipping_status", string(target.ShippingStatus)),
		zap.String("payment_status", string(target.PaymentStatus)),
		zap.String("next_action", target.NextAction),
	)

	if target.Settled() {
		return w.settle(l, result)
	}

	actions := Decide(status, target.ShippingStatus, target.PaymentStatus)
	if len(actions) == 0 {
		return skip(result, fmt.Sprintf("nothing to do for %s (shipping=%s, payment=%s)",
			status, target.ShippingStatus, target.PaymentStatus))
	}

	for _, action := range actions {
		if err := w.execute(ctx, action, target); err != nil {
			metrics.ActionsExecuted.WithLabelValues(string(action), "error").Inc()
			return w.fail(l, result, fmt.Errorf("%s: %w", action, err))
		}
		metrics.ActionsExecuted.WithLabelValues(string(action), "ok").Inc()
		result.Actions = append(result.Actions, action)
		l.Info("Action applied", zap.String("action", string(action)))
	}

	if status != StatusDelivered {
		return skip(result, fmt.Sprintf("advanced for %s, waiting for delivery", status))
	}

	return w.settle(l, result)
}

func (w *Worker) execute(ctx context.Context, action Action, target *TargetOrder) error {
	switch action {
	case ActionPack:
		return w.platform.Pack(ctx, target.ID)
	case ActionFulfill:
		return w.platform.Fulfill(ctx, target.ID)
	case ActionMarkPaid:
		return w.platform.MarkPaid(ctx, target.ID, target.Total, w.now())
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

func (w *Worker) settle(l *zap.Logger, result Result) Result {
	if err := w.cache.Add(result.ExternalCode); err != nil {
		return w.fail(l, result, err)
	}
	result.State = StateSettled
	l.Info("Order settled", zap.Int("actions", len(result.Actions)))
	return result
}

func (w *Worker) fail(l *zap.Logger, result Result, err error) Result {
	result.State = StateFailed
	result.Err = err
	result.Reason = err.Error()
	l.Error("Order reconciliation failed", zap.Error(err))
	return result
}

func skip(result Result, reason string) Result {
	result.State = StateSkipped
	result.Reason = reason
	return result
}
