package plugin

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-retain/dsp/retain"
)

func newBoundInstance(t *testing.T, n int) (*Instance, *float64, *float64, []float64, []float64, []float64, []float64) {
	t.Helper()

	in, err := New(48000, retain.WithLoopSeconds(0.01), retain.WithFadeSeconds(0.002))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	blend := new(float64)
	trigger := new(float64)
	inL := make([]float64, n)
	inR := make([]float64, n)
	outL := make([]float64, n)
	outR := make([]float64, n)

	for port, buf := range map[Port][]float64{
		PortInputL:  inL,
		PortInputR:  inR,
		PortOutputL: outL,
		PortOutputR: outR,
	} {
		if err := in.ConnectAudio(port, buf); err != nil {
			t.Fatalf("ConnectAudio(%v) error = %v", port, err)
		}
	}

	if err := in.ConnectControl(PortBlend, blend); err != nil {
		t.Fatalf("ConnectControl(blend) error = %v", err)
	}

	if err := in.ConnectControl(PortTrigger, trigger); err != nil {
		t.Fatalf("ConnectControl(trigger) error = %v", err)
	}

	in.Activate()

	return in, blend, trigger, inL, inR, outL, outR
}

func TestConnectRejectsWrongPortKind(t *testing.T) {
	in, err := New(48000)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := in.ConnectControl(PortInputL, new(float64)); err == nil {
		t.Fatal("ConnectControl(PortInputL) expected error")
	}

	if err := in.ConnectAudio(PortBlend, make([]float64, 8)); err == nil {
		t.Fatal("ConnectAudio(PortBlend) expected error")
	}

	if err := in.ConnectControl(PortBlend, nil); err == nil {
		t.Fatal("ConnectControl(nil) expected error")
	}

	if err := in.ConnectAudio(PortInputL, nil); err == nil {
		t.Fatal("ConnectAudio(nil) expected error")
	}
}

func TestRunRequiresFullBinding(t *testing.T) {
	in, err := New(48000)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := in.Run(64); err == nil {
		t.Fatal("Run() without bindings expected error")
	}
}

func TestRunRejectsShortBuffers(t *testing.T) {
	in, _, _, _, _, _, _ := newBoundInstance(t, 64)

	if err := in.Run(128); err == nil {
		t.Fatal("Run(128) with 64-frame buffers expected error")
	}

	if err := in.Run(-1); err == nil {
		t.Fatal("Run(-1) expected error")
	}
}

func TestRunMixesDrySignal(t *testing.T) {
	const n = 256

	in, blend, _, inL, inR, outL, outR := newBoundInstance(t, n)

	*blend = 0
	for i := range inL {
		inL[i] = math.Sin(2 * math.Pi * 440 * float64(i) / 48000)
		inR[i] = -inL[i]
	}

	if err := in.Run(n); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Blend 0 targets dry unity; the smoothed dry gain follows
	// 1 - 0.99^(i+1) from silence.
	for i := range outL {
		gain := 1 - math.Pow(0.99, float64(i+1))
		if diff := math.Abs(outL[i] - inL[i]*gain); diff > 1e-9 {
			t.Fatalf("sample %d = %g, want %g", i, outL[i], inL[i]*gain)
		}

		if diff := math.Abs(outR[i] - inR[i]*gain); diff > 1e-9 {
			t.Fatalf("right sample %d = %g, want %g", i, outR[i], inR[i]*gain)
		}
	}
}

func TestTriggerArmsOnRisingEdgeOnly(t *testing.T) {
	const n = 64

	in, _, trigger, _, _, _, _ := newBoundInstance(t, n)

	effect := in.Effect()

	// Held low: never arms.
	if err := in.Run(n); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if effect.Armed() {
		t.Fatal("armed with trigger low")
	}

	// Rising edge arms.
	*trigger = 1
	if err := in.Run(n); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !effect.Armed() {
		t.Fatal("not armed after rising edge")
	}

	// Complete a full capture cycle while the trigger stays high.
	blocks := (2*effect.LoopSamples())/n + 2
	for range blocks {
		if err := in.Run(n); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	}

	if effect.Armed() || effect.State() != retain.StateLooping {
		t.Fatalf("capture did not finish: armed=%v state=%v", effect.Armed(), effect.State())
	}

	// Still high: must not re-arm.
	if err := in.Run(n); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if effect.Armed() {
		t.Fatal("re-armed while trigger held high")
	}

	// Release, then raise again: arms.
	*trigger = 0
	if err := in.Run(n); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	*trigger = 1
	if err := in.Run(n); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !effect.Armed() {
		t.Fatal("not armed after second rising edge")
	}
}

func TestActivateResetsEffectAndLatch(t *testing.T) {
	const n = 64

	in, _, trigger, _, _, _, _ := newBoundInstance(t, n)

	*trigger = 1
	if err := in.Run(n); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !in.Effect().Armed() {
		t.Fatal("not armed")
	}

	in.Activate()

	if in.Effect().Armed() || in.Effect().State() != retain.StateLooping {
		t.Fatal("Activate() did not reset the effect")
	}

	// The latch is released too, so the still-high trigger re-arms on the
	// first block after activation.
	if err := in.Run(n); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !in.Effect().Armed() {
		t.Fatal("trigger latch not released by Activate()")
	}
}

func TestRunClampsBlend(t *testing.T) {
	const n = 32

	in, blend, _, _, _, _, _ := newBoundInstance(t, n)

	for _, v := range []float64{-10, math.NaN(), 250} {
		*blend = v
		if err := in.Run(n); err != nil {
			t.Fatalf("Run() with blend %v error = %v", v, err)
		}
	}

	if got := in.Effect().Blend(); got != 100 {
		t.Fatalf("blend after clamp = %v, want 100", got)
	}
}

func TestPortStrings(t *testing.T) {
	want := map[Port]string{
		PortBlend:   "blend",
		PortTrigger: "trigger",
		PortInputL:  "input_l",
		PortInputR:  "input_r",
		PortOutputL: "output_l",
		PortOutputR: "output_r",
		Port(42):    "invalid",
	}

	for port, name := range want {
		if got := port.String(); got != name {
			t.Fatalf("Port(%d).String() = %q, want %q", int(port), got, name)
		}
	}
}

func TestDeactivateKeepsState(t *testing.T) {
	const n = 64

	in, _, trigger, _, _, _, _ := newBoundInstance(t, n)

	*trigger = 1
	if err := in.Run(n); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	in.Deactivate()

	if !in.Effect().Armed() {
		t.Fatal("Deactivate() must not reset the effect")
	}
}
