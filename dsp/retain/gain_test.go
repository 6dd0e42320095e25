package retain

import (
	"math"
	"testing"
)

func TestBlendGainsMatchesCurve(t *testing.T) {
	cases := []struct {
		blend float64
		dry   float64
		wet   float64
	}{
		{0, 1, 0},
		{25, 1, math.Pow(10, -25*0.04)},
		{50, 1, 1},
		{75, math.Pow(10, -25*0.04), 1},
		{100, 0, 1},
	}

	for _, tc := range cases {
		dry, wet := BlendGains(tc.blend)
		if math.Abs(dry-tc.dry) > 1e-12 || math.Abs(wet-tc.wet) > 1e-12 {
			t.Fatalf("BlendGains(%v) = (%g, %g), want (%g, %g)", tc.blend, dry, wet, tc.dry, tc.wet)
		}
	}
}

func TestBlendGainsOutOfRangeClamps(t *testing.T) {
	dry, wet := BlendGains(-5)
	if dry != 1 || wet != 0 {
		t.Fatalf("BlendGains(-5) = (%g, %g), want (1, 0)", dry, wet)
	}

	dry, wet = BlendGains(140)
	if dry != 0 || wet != 1 {
		t.Fatalf("BlendGains(140) = (%g, %g), want (0, 1)", dry, wet)
	}
}

func TestGainSmoothingConvergence(t *testing.T) {
	r, err := New(48000)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Blend 50 targets unity on both sides; starting from silence the
	// one-pole smoother follows g_n = 1 - 0.99^n.
	err = r.SetBlend(50)
	if err != nil {
		t.Fatalf("SetBlend() error = %v", err)
	}

	const n = 500
	for range n {
		r.ProcessStereo(0, 0)
	}

	want := 1 - math.Pow(smootherFall, n)

	dry, wet := r.Gains()
	if diff := math.Abs(dry - want); diff > 1e-9 {
		t.Fatalf("dry gain after %d samples = %g, want %g (diff %g)", n, dry, want, diff)
	}

	if diff := math.Abs(wet - want); diff > 1e-9 {
		t.Fatalf("wet gain after %d samples = %g, want %g (diff %g)", n, wet, want, diff)
	}
}

func TestGainSmoothingTracksBlendStep(t *testing.T) {
	r, err := New(48000)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Settle at blend 100, then step back to 0. The dry gain must ramp,
	// not snap.
	_ = r.SetBlend(100)
	for range 4000 {
		r.ProcessStereo(0, 0)
	}

	dryBefore, _ := r.Gains()
	if dryBefore > 1e-12 {
		t.Fatalf("dry gain should settle at 0 for blend 100: %g", dryBefore)
	}

	_ = r.SetBlend(0)
	r.ProcessStereo(0, 0)

	dry, _ := r.Gains()
	if want := smootherRise; math.Abs(dry-want) > 1e-9 {
		t.Fatalf("dry gain one sample after step = %g, want %g", dry, want)
	}
}

func TestSetBlendRejectsOutOfRange(t *testing.T) {
	r, err := New(48000)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	invalid := []float64{-0.1, 100.1, math.NaN()}
	for _, blend := range invalid {
		if err := r.SetBlend(blend); err == nil {
			t.Fatalf("SetBlend(%v) expected error", blend)
		}
	}

	if err := r.SetBlend(100); err != nil {
		t.Fatalf("SetBlend(100) error = %v", err)
	}
}
