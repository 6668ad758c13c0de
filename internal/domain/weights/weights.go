// Package weights resolves reactivity weights for (tournament, skill) pairs.
//
// Weights arrive either directly from a reward-policy configuration or as
// fractional preset weights that must be normalized by their mean before the
// engine sees them.
package weights

import "math"

// Reactivity weight bounds. 1.0 is neutral.
const (
	MinReactivity = 0.1
	MaxReactivity = 5.0
)

// Clamp bounds a single reactivity weight to [MinReactivity, MaxReactivity].
func Clamp(w float64) float64 {
	return math.Max(MinReactivity, math.Min(MaxReactivity, w))
}

// FromFractional converts fractional preset weights into reactivity
// multipliers: reactivity = fractional / mean(fractionals), clamped. A preset
// whose fractions are all equal therefore resolves to all-neutral weights.
// Non-positive fractions are dropped rather than skewing the mean.
func FromFractional(fractional map[string]float64) map[string]float64 {
	usable := make(map[string]float64, len(fractional))
	sum := 0.0
	for skill, f := range fractional {
		if f > 0 {
			usable[skill] = f
			sum += f
		}
	}
	if len(usable) == 0 {
		return map[string]float64{}
	}

	mean := sum / float64(len(usable))
	out := make(map[string]float64, len(usable))
	for skill, f := range usable {
		out[skill] = Clamp(f / mean)
	}
	return out
}

// ClampAll bounds every weight in a directly supplied map, dropping
// non-positive entries the same way FromFractional does.
func ClampAll(direct map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(direct))
	for skill, w := range direct {
		if w > 0 {
			out[skill] = Clamp(w)
		}
	}
	return out
}
