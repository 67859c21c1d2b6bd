package booking

import "math"

// RefundPolicy derives the gateway refund amount from a session's stored
// price. The division is an inherited unit-scaling rule, so it is injected
// as an explicit policy rather than baked into the workflow.
type RefundPolicy struct {
	// UnitDivisor scales the stored price down to gateway units.
	UnitDivisor int
}

// DefaultRefundUnitDivisor matches the scaling the platform has always
// applied between stored session prices and gateway refund amounts.
const DefaultRefundUnitDivisor = 300

// NewRefundPolicy returns a policy with the given divisor, falling back to
// the default when the divisor is not positive.
func NewRefundPolicy(divisor int) RefundPolicy {
	if divisor <= 0 {
		divisor = DefaultRefundUnitDivisor
	}
	return RefundPolicy{UnitDivisor: divisor}
}

// Amount returns round(price / divisor).
func (p RefundPolicy) Amount(price int64) int64 {
	divisor := p.UnitDivisor
	if divisor <= 0 {
		divisor = DefaultRefundUnitDivisor
	}
	return int64(math.Round(float64(price) / float64(divisor)))
}
