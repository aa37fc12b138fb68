package reconcile

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the POS-side lifecycle status of an order.
type Status string

const (
	// StatusInWarehouse means the order is packed and waiting in the warehouse.
	StatusInWarehouse Status = "InWarehouse"
	// StatusInTransit means the order left the warehouse.
	StatusInTransit Status = "InTransit"
	// StatusDelivered means the order reached the customer.
	StatusDelivered Status = "Delivered"
	// StatusCancelled means the order was cancelled in the POS.
	StatusCancelled Status = "Cancelled"
	// StatusUnknown covers any label the POS sends that we do not recognise.
	StatusUnknown Status = "Unknown"
)

// ParseStatus maps a POS status label to a Status.
// The POS emits Spanish labels; the English names are accepted as well.
func ParseStatus(label string) Status {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "en depósito", "en deposito", "inwarehouse":
		return StatusInWarehouse
	case "en tránsito", "en transito", "intransit":
		return StatusInTransit
	case "entregado", "delivered":
		return StatusDelivered
	case "cancelado", "cancelled":
		return StatusCancelled
	default:
		return StatusUnknown
	}
}

// ShippingStatus is the commerce platform's shipping state.
type ShippingStatus string

const (
	ShippingUnpacked  ShippingStatus = "unpacked"
	ShippingUnshipped ShippingStatus = "unshipped"
	ShippingShipped   ShippingStatus = "shipped"
)

// PaymentStatus is the commerce platform's payment state.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// SourceOrder is one row of the POS order listing.
type SourceOrder struct {
	ClientName   string `json:"clientName"`
	StatusName   string `json:"statusName"`
	ExternalCode string `json:"externalCode"`
	Store        string `json:"store"`
}

// Status returns the parsed POS status of the order.
func (o SourceOrder) Status() Status {
	return ParseStatus(o.StatusName)
}

// TargetOrder is the commerce platform's view of an order.
type TargetOrder struct {
	// ID is the platform identifier used by the action endpoints.
	ID string
	// Number is the human-facing order number.
	Number string
	// ShippingStatus is the current shipping state.
	ShippingStatus ShippingStatus
	// PaymentStatus is the current payment state.
	PaymentStatus PaymentStatus
	// Total is the full order amount.
	Total decimal.Decimal
	// NextAction is the platform's legacy transitional hint, logged only.
	NextAction string
}

// Settled reports whether the order needs no further action.
func (o TargetOrder) Settled() bool {
	return IsSettled(o.ShippingStatus, o.PaymentStatus)
}

// Action is a side-effecting call against the commerce platform.
type Action string

const (
	// ActionPack marks the order as packed.
	ActionPack Action = "pack"
	// ActionFulfill marks the order as shipped.
	ActionFulfill Action = "fulfill"
	// ActionMarkPaid records a cash settlement for the order total.
	ActionMarkPaid Action = "mark_paid"
)

// State is the terminal state of a worker.
type State string

const (
	StateSkipped State = "skipped"
	StateSettled State = "settled"
	StateFailed  State = "failed"
)

// Result is the outcome of reconciling a single order.
type Result struct {
	// ExternalCode is the cross-system key of the order.
	ExternalCode string `json:"external_code"`

	// State is the terminal state the worker reached.
	State State `json:"state"`

	// Actions lists the platform calls that completed, in order.
	Actions []Action `json:"actions"`

	// Reason explains a skip or failure.
	Reason string `json:"reason,omitempty"`

	// Err holds the failure cause. Not serialized.
	Err error `json:"-"`
}

// Window is the inclusive date range of the POS listing query.
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// RunSummary provides aggregate counts for a run.
type RunSummary struct {
	Total   int `json:"total"`
	Settled int `json:"settled"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// RunReport is the result of one end-to-end sync run.
type RunReport struct {
	// ID uniquely identifies the run.
	ID string `json:"id"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Window is the POS listing range used for the run.
	Window Window `json:"window"`

	// Results holds one entry per listed order, in listing order.
	Results []Result `json:"results"`

	// Summary aggregates Results.
	Summary RunSummary `json:"summary"`
}

// Summarize counts results by terminal state.
func Summarize(results []Result) RunSummary {
	s := RunSummary{Total: len(results)}
	for _, r := range results {
		switch r.State {
		case StateSettled:
			s.Settled++
		case StateSkipped:
			s.Skipped++
		case StateFailed:
			s.Failed++
		}
	}
	return s
}
