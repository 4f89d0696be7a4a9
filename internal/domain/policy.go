package domain

// CapacityPolicy decides whether a capacity increment may exceed a
// provider's configured maximum.
//
// The original behavior is Unbounded: current_capacity grows past
// max_capacity without complaint. Bounded turns the increment into a
// guarded update that refuses once current_capacity == max_capacity.
// Providers without a max_capacity are never bounded.
type CapacityPolicy int

const (
	CapacityUnbounded CapacityPolicy = iota
	CapacityBounded
)

// Allows reports whether one more patient may be assigned under this
// policy, given the provider's current state. A nil max means no limit is
// configured for the provider at all.
func (p CapacityPolicy) Allows(current int, max *int) bool {
	if p == CapacityUnbounded || max == nil {
		return true
	}
	return current < *max
}
