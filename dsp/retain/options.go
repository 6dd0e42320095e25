package retain

import (
	"fmt"
	"math"
)

const (
	defaultLoopSeconds    = 5.0
	defaultFadeSeconds    = 1.0
	defaultMaxLoopSeconds = 20.0

	minLoopSeconds = 0.001
	minFadeSeconds = 0.0001
)

// Option mutates retainer construction parameters.
type Option func(*config) error

type config struct {
	loopSeconds    float64
	fadeSeconds    float64
	maxLoopSeconds float64
}

func defaultConfig() config {
	return config{
		loopSeconds:    defaultLoopSeconds,
		fadeSeconds:    defaultFadeSeconds,
		maxLoopSeconds: defaultMaxLoopSeconds,
	}
}

// WithLoopSeconds sets the loop duration in seconds. It must not exceed the
// configured maximum loop duration.
func WithLoopSeconds(seconds float64) Option {
	return func(cfg *config) error {
		if seconds < minLoopSeconds || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return fmt.Errorf("retain loop seconds must be >= %g: %f", minLoopSeconds, seconds)
		}

		cfg.loopSeconds = seconds

		return nil
	}
}

// WithFadeSeconds sets the fade duration in seconds. The derived fade length
// must not exceed half the loop length.
func WithFadeSeconds(seconds float64) Option {
	return func(cfg *config) error {
		if seconds < minFadeSeconds || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return fmt.Errorf("retain fade seconds must be >= %g: %f", minFadeSeconds, seconds)
		}

		cfg.fadeSeconds = seconds

		return nil
	}
}

// WithMaxLoopSeconds sets the buffer capacity in seconds. The buffer is
// allocated once at construction and never resized during processing.
func WithMaxLoopSeconds(seconds float64) Option {
	return func(cfg *config) error {
		if seconds < minLoopSeconds || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return fmt.Errorf("retain max loop seconds must be >= %g: %f", minLoopSeconds, seconds)
		}

		cfg.maxLoopSeconds = seconds

		return nil
	}
}
