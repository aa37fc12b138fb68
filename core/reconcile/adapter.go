package reconcile

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Source is the POS side of the sync: it authenticates and lists orders.
type Source interface {
	// Login acquires an opaque session token.
	Login(ctx context.Context) (string, error)

	// ListOrders returns every order created inside window.
	// The token is passed through unmodified.
	ListOrders(ctx context.Context, token string, window Window) ([]SourceOrder, error)
}

// Platform is the commerce side of the sync.
// Each action is expected to be idempotent on the platform.
type Platform interface {
	// FindOrder looks up an order by its normalized external code.
	// It returns ErrOrderNotFound when nothing matches; ambiguous matches
	// resolve to the first result.
	FindOrder(ctx context.Context, externalCode string) (*TargetOrder, error)

	// Pack marks the order as packed.
	Pack(ctx context.Context, orderID string) error

	// Fulfill marks the order as shipped with a placeholder tracking reference
	// and without notifying the customer.
	Fulfill(ctx context.Context, orderID string) error

	// MarkPaid records a cash settlement of amount at happenedAt.
	MarkPaid(ctx context.Context, orderID string, amount decimal.Decimal, happenedAt time.Time) error
}
