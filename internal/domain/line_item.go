package domain

import "github.com/shopspring/decimal"

// LineItem binds one resource, one interval and a quantity inside a request.
// Kind tags the variant (lab, component or staff line); every variant shares
// the interval/quantity contract and differs only in its capacity model.
type LineItem struct {
	ID         int64
	RequestID  int64
	ResourceID int64
	Kind       ResourceKind
	Interval   Interval
	Quantity   int
	Rate       decimal.Decimal // hourly rate snapshot taken when the line was added
	Charge     decimal.Decimal
}

// ResourceKind returns the variant tag of the line
func (l *LineItem) ResourceKind() ResourceKind {
	return l.Kind
}

// CapacityModel returns how the line consumes capacity
func (l *LineItem) CapacityModel() CapacityModel {
	return l.Kind.CapacityModel()
}

// RecomputeCharge sets Charge = rate × hours × quantity
func (l *LineItem) RecomputeCharge() {
	l.Charge = ComputeCharge(l.Rate, l.Interval, l.Quantity)
}

// ComputeCharge returns rate × hours × quantity rounded to cents
func ComputeCharge(rate decimal.Decimal, interval Interval, quantity int) decimal.Decimal {
	return rate.
		Mul(interval.Hours()).
		Mul(decimal.NewFromInt(int64(quantity))).
		Round(2)
}
