package entity

type OrderStatus string

const (
	StatusPending OrderStatus = "pending"
	StatusReady   OrderStatus = "ready"
	StatusPaid    OrderStatus = "paid"
)

// OrderStatuses lists every status in display order.
var OrderStatuses = []OrderStatus{StatusPending, StatusReady, StatusPaid}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusReady, StatusPaid:
		return true
	}
	return false
}

// ParseOrderStatus accepts a status key. Empty input yields pending.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	if s == "" {
		return StatusPending, true
	}
	st := OrderStatus(s)
	return st, st.Valid()
}
