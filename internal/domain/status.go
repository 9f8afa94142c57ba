package domain

type OrderStatus string

const (
	StatusPending          OrderStatus = "PENDING"
	StatusReadyForDelivery OrderStatus = "READY_FOR_DELIVERY"
	StatusShipped          OrderStatus = "SHIPPED"
	StatusDelivered        OrderStatus = "DELIVERED"
	StatusCancelled        OrderStatus = "CANCELLED"
)

var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:          {StatusReadyForDelivery, StatusCancelled},
	StatusReadyForDelivery: {StatusShipped, StatusCancelled},
	StatusShipped:          {StatusDelivered},
	StatusDelivered:        {},
	StatusCancelled:        {},
}

// ParseOrderStatus validates a wire value against the known statuses.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	status := OrderStatus(s)
	_, ok := allowedTransitions[status]
	return status, ok
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// CanBeCancelled limits buyer cancellation to statuses where the seller
// has not yet handed the order off.
func (s OrderStatus) CanBeCancelled() bool {
	return s == StatusPending || s == StatusReadyForDelivery
}

// CanBeDeleted permits deletion only from terminal statuses.
func (s OrderStatus) CanBeDeleted() bool {
	return s == StatusCancelled || s == StatusDelivered
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}
