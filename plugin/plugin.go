// Package plugin exposes the retainer through an LV2-style host contract:
// port binding, activation, and block processing as explicit lifecycle
// calls on one instance.
package plugin

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-retain/dsp/retain"
)

// Port identifies one host-visible port of the retainer plugin.
type Port int

const (
	// PortBlend is the dry/wet blend control in [0, 100].
	PortBlend Port = iota
	// PortTrigger arms a capture pass on its rising edge (>0 after <=0).
	PortTrigger
	// PortInputL is the left audio input.
	PortInputL
	// PortInputR is the right audio input.
	PortInputR
	// PortOutputL is the left audio output.
	PortOutputL
	// PortOutputR is the right audio output.
	PortOutputR

	numPorts
)

// String returns the port symbol.
func (p Port) String() string {
	switch p {
	case PortBlend:
		return "blend"
	case PortTrigger:
		return "trigger"
	case PortInputL:
		return "input_l"
	case PortInputR:
		return "input_r"
	case PortOutputL:
		return "output_l"
	case PortOutputR:
		return "output_r"
	default:
		return "invalid"
	}
}

// Processor is the host-facing lifecycle contract: bind ports, activate,
// run blocks, deactivate. Construction plays the role of instantiation and
// garbage collection that of destruction.
//
// Calls are not reentrant; the host serializes access to an instance.
type Processor interface {
	ConnectControl(port Port, value *float64) error
	ConnectAudio(port Port, buf []float64) error
	Activate()
	Run(nSamples int) error
	Deactivate()
}

// Instance is a retainer plugin instance. The zero value is not usable;
// create instances with New.
type Instance struct {
	effect *retain.Retain

	blend   *float64
	trigger *float64
	inL     []float64
	inR     []float64
	outL    []float64
	outR    []float64

	lastTrigger float64
}

var _ Processor = (*Instance)(nil)

// New instantiates a retainer plugin at the given sample rate. Options are
// forwarded to the underlying effect.
func New(sampleRate float64, opts ...retain.Option) (*Instance, error) {
	effect, err := retain.New(sampleRate, opts...)
	if err != nil {
		return nil, err
	}

	return &Instance{effect: effect}, nil
}

// Effect returns the underlying retainer for inspection.
func (in *Instance) Effect() *retain.Retain { return in.effect }

// ConnectControl binds a control port to a host-owned value read once per
// Run call.
func (in *Instance) ConnectControl(port Port, value *float64) error {
	if value == nil {
		return fmt.Errorf("plugin: control port %v bound to nil", port)
	}

	switch port {
	case PortBlend:
		in.blend = value
	case PortTrigger:
		in.trigger = value
	default:
		return fmt.Errorf("plugin: %v is not a control port", port)
	}

	return nil
}

// ConnectAudio binds an audio port to a host-owned sample buffer. The
// buffer must cover every frame of subsequent Run calls.
func (in *Instance) ConnectAudio(port Port, buf []float64) error {
	if buf == nil {
		return fmt.Errorf("plugin: audio port %v bound to nil", port)
	}

	switch port {
	case PortInputL:
		in.inL = buf
	case PortInputR:
		in.inR = buf
	case PortOutputL:
		in.outL = buf
	case PortOutputR:
		in.outR = buf
	default:
		return fmt.Errorf("plugin: %v is not an audio port", port)
	}

	return nil
}

// Activate resets the effect to its construction defaults: silent buffer,
// zeroed cursors and gains, trigger latch released. The host must call it
// before the first Run and may call it again to reuse the instance.
func (in *Instance) Activate() {
	in.effect.Reset()
	in.lastTrigger = 0
}

// Run processes nSamples frames from the bound input ports into the bound
// output ports. Control ports are sampled once at the start of the block;
// the blend change is absorbed per sample by the gain smoother.
func (in *Instance) Run(nSamples int) error {
	if nSamples < 0 {
		return fmt.Errorf("plugin: frame count must be >= 0: %d", nSamples)
	}

	if in.blend == nil || in.trigger == nil {
		return fmt.Errorf("plugin: control ports not fully bound")
	}

	if in.inL == nil || in.inR == nil || in.outL == nil || in.outR == nil {
		return fmt.Errorf("plugin: audio ports not fully bound")
	}

	if len(in.inL) < nSamples || len(in.inR) < nSamples ||
		len(in.outL) < nSamples || len(in.outR) < nSamples {
		return fmt.Errorf("plugin: audio buffers shorter than frame count %d", nSamples)
	}

	// Only a low-to-high transition arms; a trigger held high across
	// blocks cannot re-arm a finished capture.
	trig := *in.trigger
	if trig > 0 && in.lastTrigger <= 0 {
		in.effect.Arm()
	}

	in.lastTrigger = trig

	err := in.effect.SetBlend(clampBlend(*in.blend))
	if err != nil {
		return err
	}

	return in.effect.ProcessStereoBlock(in.outL[:nSamples], in.outR[:nSamples], in.inL[:nSamples], in.inR[:nSamples])
}

// Deactivate signals the host's intent to pause. The instance keeps its
// state; Activate clears it.
func (in *Instance) Deactivate() {}

// Hosts may hand over slightly out-of-range control values; clamp instead
// of failing mid-stream.
func clampBlend(blend float64) float64 {
	if blend < 0 || math.IsNaN(blend) {
		return 0
	}

	if blend > 100 {
		return 100
	}

	return blend
}
