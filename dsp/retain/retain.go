package retain

import (
	"fmt"
	"math"
)

// Retain is a stereo sound retainer (live looper) with blend control.
//
// All state lives in the instance: the loop buffer is allocated once at
// construction for the configured maximum loop duration, and the processing
// path performs no allocation.
type Retain struct {
	sampleRate     float64
	loopSeconds    float64
	fadeSeconds    float64
	maxLoopSeconds float64

	loopSamples int
	fadeSamples int

	blend     float64
	targetDry float64
	targetWet float64
	dryGain   float64
	wetGain   float64

	state    TransportState
	armed    bool
	writePos int
	readPos  int

	bufL []float64
	bufR []float64
}

// New creates a retainer with practical defaults and optional overrides.
//
// The loop and fade durations are fixed after construction and default to a
// 5 s loop with a 1 s fade.
func New(sampleRate float64, opts ...Option) (*Retain, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("retain sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	loopSamples := int(math.Round(cfg.loopSeconds * sampleRate))
	fadeSamples := int(math.Round(cfg.fadeSeconds * sampleRate))
	capacity := int(math.Ceil(cfg.maxLoopSeconds * sampleRate))

	// Duration faults are construction-time errors; the processing path
	// relies on these bounds and never re-checks them.
	if loopSamples < 2 {
		return nil, fmt.Errorf("retain loop must span at least 2 samples: %d", loopSamples)
	}

	if fadeSamples < 1 {
		return nil, fmt.Errorf("retain fade must span at least 1 sample: %d", fadeSamples)
	}

	if fadeSamples > loopSamples/2 {
		return nil, fmt.Errorf("retain fade length must not exceed half the loop length: %d > %d/2",
			fadeSamples, loopSamples)
	}

	if loopSamples > capacity {
		return nil, fmt.Errorf("retain loop length exceeds buffer capacity: %d > %d", loopSamples, capacity)
	}

	r := &Retain{
		sampleRate:     sampleRate,
		loopSeconds:    cfg.loopSeconds,
		fadeSeconds:    cfg.fadeSeconds,
		maxLoopSeconds: cfg.maxLoopSeconds,
		loopSamples:    loopSamples,
		fadeSamples:    fadeSamples,
		bufL:           make([]float64, capacity),
		bufR:           make([]float64, capacity),
	}

	r.targetDry, r.targetWet = BlendGains(r.blend)
	r.Reset()

	return r, nil
}

// SampleRate returns sample rate in Hz.
func (r *Retain) SampleRate() float64 { return r.sampleRate }

// LoopSeconds returns the loop duration in seconds.
func (r *Retain) LoopSeconds() float64 { return r.loopSeconds }

// FadeSeconds returns the fade duration in seconds.
func (r *Retain) FadeSeconds() float64 { return r.fadeSeconds }

// MaxLoopSeconds returns the buffer capacity in seconds.
func (r *Retain) MaxLoopSeconds() float64 { return r.maxLoopSeconds }

// LoopSamples returns the loop length in samples.
func (r *Retain) LoopSamples() int { return r.loopSamples }

// FadeSamples returns the fade length in samples.
func (r *Retain) FadeSamples() int { return r.fadeSamples }

// Blend returns the blend control value in [0, 100].
func (r *Retain) Blend() float64 { return r.blend }

// Gains returns the current smoothed (dry, wet) gain pair.
func (r *Retain) Gains() (dry, wet float64) { return r.dryGain, r.wetGain }

// State returns the current transport state.
func (r *Retain) State() TransportState { return r.state }

// Armed reports whether a capture pass is armed or in progress.
func (r *Retain) Armed() bool { return r.armed }

// SetBlend sets the blend control in [0, 100] and recomputes the gain
// targets. The smoothed gains converge toward the new targets per sample.
func (r *Retain) SetBlend(blend float64) error {
	if blend < minBlend || blend > maxBlend || math.IsNaN(blend) {
		return fmt.Errorf("retain blend must be in [%g, %g]: %f", minBlend, maxBlend, blend)
	}

	r.blend = blend
	r.targetDry, r.targetWet = BlendGains(blend)

	return nil
}

// Arm requests a new capture pass. Recording starts when loop playback next
// wraps past the loop end, not immediately, so the current loop is never
// torn mid-playback. Arming while already armed has no effect.
func (r *Retain) Arm() {
	r.armed = true
}

// Reset zeroes the loop buffer and restores cursors, gains, and transport
// to their activation defaults. The blend setting is kept.
func (r *Retain) Reset() {
	for i := range r.bufL {
		r.bufL[i] = 0
		r.bufR[i] = 0
	}

	r.writePos = 0
	r.readPos = 0
	r.dryGain = 0
	r.wetGain = 0
	r.armed = false
	r.state = StateLooping
}

// ProcessStereo processes a single stereo sample pair and returns the mixed
// left and right outputs.
func (r *Retain) ProcessStereo(inL, inR float64) (float64, float64) {
	r.dryGain = r.targetDry*smootherRise + r.dryGain*smootherFall
	r.wetGain = r.targetWet*smootherRise + r.wetGain*smootherFall

	var wetL, wetR float64

	switch r.state {
	case StateRecording:
		r.recordSample(inL, inR)
	case StateLooping:
		wetL, wetR = r.loopSample()
	}

	return inL*r.dryGain + wetL*r.wetGain, inR*r.dryGain + wetR*r.wetGain
}

// ProcessStereoInPlace applies the retainer to paired left/right buffers in
// place. Both buffers must have the same length.
func (r *Retain) ProcessStereoInPlace(left, right []float64) error {
	if len(left) != len(right) {
		return fmt.Errorf("retain: left and right buffers must have equal length: %d != %d",
			len(left), len(right))
	}

	for i := range left {
		left[i], right[i] = r.ProcessStereo(left[i], right[i])
	}

	return nil
}

// ProcessStereoBlock processes one block from separate input buffers into
// separate output buffers, the layout hosts with distinct in/out ports use.
// All four buffers must have the same length; inputs are not modified.
func (r *Retain) ProcessStereoBlock(outL, outR, inL, inR []float64) error {
	n := len(outL)
	if len(outR) != n || len(inL) != n || len(inR) != n {
		return fmt.Errorf("retain: block buffers must have equal length: out %d/%d in %d/%d",
			len(outL), len(outR), len(inL), len(inR))
	}

	for i := range n {
		outL[i], outR[i] = r.ProcessStereo(inL[i], inR[i])
	}

	return nil
}
