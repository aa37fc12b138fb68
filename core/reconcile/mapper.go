package reconcile

// Decide returns the ordered platform actions needed to bring an order in line
// with its POS status. The platform's shipping and payment state decide which
// actions are still valid; the POS status decides whether any are due.
// A nil result means nothing to do.
func Decide(status Status, shipping ShippingStatus, payment PaymentStatus) []Action {
	if IsSettled(shipping, payment) {
		return nil
	}

	switch status {
	case StatusInWarehouse:
		if shipping == ShippingUnpacked {
			return []Action{ActionPack}
		}
		return nil

	case StatusDelivered:
		var actions []Action
		switch shipping {
		case ShippingUnpacked:
			actions = append(actions, ActionPack, ActionFulfill)
		case ShippingUnshipped:
			actions = append(actions, ActionFulfill)
		case ShippingShipped:
			// Shipped but unpaid: the platform waits for a manual payment confirmation.
		default:
			return nil
		}
		if payment == PaymentPending {
			actions = append(actions, ActionMarkPaid)
		}
		return actions

	default:
		return nil
	}
}

// IsSettled reports whether an order is both shipped and paid.
func IsSettled(shipping ShippingStatus, payment PaymentStatus) bool {
	return shipping == ShippingShipped && payment == PaymentPaid
}
