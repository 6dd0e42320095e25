package retain

import "math"

const (
	minBlend = 0.0
	maxBlend = 100.0

	// One-pole smoothing coefficients. The coefficient is fixed across
	// sample rates, so the settling time in seconds shortens as the rate
	// rises.
	smootherRise = 0.01
	smootherFall = 0.99
)

// BlendGains maps a blend control value in [0, 100] to a (dry, wet) target
// gain pair using a logarithmic crossfade curve:
//
//	blend   0: dry = 1, wet = 0
//	blend  50: dry = 1, wet = 1
//	blend 100: dry = 0, wet = 1
//
// Between those points the receding side follows 10^(±(blend-50)*0.04)
// while the other side stays at unity. The pair is intentionally not
// power-normalized; at blend 50 both signals pass at full gain.
func BlendGains(blend float64) (dry, wet float64) {
	switch {
	case blend <= minBlend:
		return 1, 0
	case blend < 50:
		return 1, math.Pow(10, (blend-50)*0.04)
	case blend == 50:
		return 1, 1
	case blend < maxBlend:
		return math.Pow(10, (blend-50)*-0.04), 1
	default:
		return 0, 1
	}
}
