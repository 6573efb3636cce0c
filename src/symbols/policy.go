package symbols

// Direction of a binary/digital option contract.
type Direction string

const (
	DirectionCall Direction = "call"
	DirectionPut  Direction = "put"
)

// Expiration units per asset class.
const (
	ExpirationUnitMinutes = "m"
	ExpirationUnitTicks   = "t"
)

// PolicyResult carries the per-asset business rules applied before any
// provider is contacted.
type PolicyResult struct {
	AllowedDirections []Direction
	MinExpiration     int
	MaxExpiration     int
	ExpirationUnit    string
}

// Allows reports whether the given direction is permitted for the asset.
func (p PolicyResult) Allows(d Direction) bool {
	for _, allowed := range p.AllowedDirections {
		if allowed == d {
			return true
		}
	}
	return false
}

// ExpirationValid reports whether the expiration falls inside the
// class-specific bounds.
func (p PolicyResult) ExpirationValid(expiration int) bool {
	return expiration >= p.MinExpiration && expiration <= p.MaxExpiration
}

// PolicyFor returns the trading rules for a normalized asset.
//
// BOOM/CRASH barrier indices are structurally one-directional: CRASH walks
// down with upward spikes, so only the spike side (CALL) is offered.
// Volatility indices expire in ticks, everything else in minutes.
func PolicyFor(asset NormalizedAsset) PolicyResult {
	switch asset.Class {
	case AssetClassSyntheticBarrier:
		return PolicyResult{
			AllowedDirections: []Direction{DirectionCall},
			MinExpiration:     1,
			MaxExpiration:     10,
			ExpirationUnit:    ExpirationUnitTicks,
		}
	case AssetClassSyntheticIndex:
		return PolicyResult{
			AllowedDirections: []Direction{DirectionCall, DirectionPut},
			MinExpiration:     1,
			MaxExpiration:     10,
			ExpirationUnit:    ExpirationUnitTicks,
		}
	default:
		return PolicyResult{
			AllowedDirections: []Direction{DirectionCall, DirectionPut},
			MinExpiration:     1,
			MaxExpiration:     60,
			ExpirationUnit:    ExpirationUnitMinutes,
		}
	}
}
