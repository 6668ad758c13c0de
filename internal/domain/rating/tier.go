package rating

// Tier is the display band derived from a current rating value. Purely
// presentational; nothing in the engine branches on it.
type Tier string

// Tier bands, highest first.
const (
	TierMaster       Tier = "MASTER"
	TierAdvanced     Tier = "ADVANCED"
	TierIntermediate Tier = "INTERMEDIATE"
	TierDeveloping   Tier = "DEVELOPING"
	TierBeginner     Tier = "BEGINNER"
)

// Tier thresholds on current value.
const (
	masterThreshold       = 95.0
	advancedThreshold     = 85.0
	intermediateThreshold = 70.0
	developingThreshold   = 50.0
)

// TierFor maps a current rating value to its display tier.
func TierFor(value float64) Tier {
	switch {
	case value >= masterThreshold:
		return TierMaster
	case value >= advancedThreshold:
		return TierAdvanced
	case value >= intermediateThreshold:
		return TierIntermediate
	case value >= developingThreshold:
		return TierDeveloping
	default:
		return TierBeginner
	}
}
