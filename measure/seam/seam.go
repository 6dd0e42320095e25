package seam

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultSplitFreq = 5000.0
	minAnalyzeLen    = 8
)

// Config holds seam analysis parameters.
type Config struct {
	// SampleRate of the analyzed segment in Hz. Required.
	SampleRate float64
	// FFTSize for the spectral click metric. 0 selects the next power of
	// two covering the segment.
	FFTSize int
	// SplitFreq divides the spectrum into a low and a high band; energy
	// above it counts toward the click metric. 0 selects 5 kHz.
	SplitFreq float64
}

// Result holds seam analysis results.
type Result struct {
	// MaxStep is the largest absolute first difference in the segment.
	MaxStep float64
	// MeanStep is the mean absolute first difference.
	MeanStep float64
	// HighBandRatio is the fraction of windowed spectral power above the
	// configured split frequency, in [0, 1].
	HighBandRatio float64
}

// MaxStep returns the largest absolute sample-to-sample step in buf.
func MaxStep(buf []float64) float64 {
	maxStep := 0.0

	for i := 1; i < len(buf); i++ {
		if step := math.Abs(buf[i] - buf[i-1]); step > maxStep {
			maxStep = step
		}
	}

	return maxStep
}

// Analyze computes the seam metrics of a segment, typically a short window
// centered on a loop wrap point. The segment is Hann-windowed before the
// spectral metric so segment edges do not register as clicks themselves.
func Analyze(segment []float64, cfg Config) (Result, error) {
	if cfg.SampleRate <= 0 || math.IsNaN(cfg.SampleRate) || math.IsInf(cfg.SampleRate, 0) {
		return Result{}, fmt.Errorf("seam sample rate must be > 0: %f", cfg.SampleRate)
	}

	if len(segment) < minAnalyzeLen {
		return Result{}, fmt.Errorf("seam segment must have at least %d samples: %d", minAnalyzeLen, len(segment))
	}

	splitFreq := cfg.SplitFreq
	if splitFreq == 0 {
		splitFreq = defaultSplitFreq
	}

	if splitFreq < 0 || splitFreq > cfg.SampleRate/2 {
		return Result{}, fmt.Errorf("seam split frequency must be in [0, %g]: %f", cfg.SampleRate/2, splitFreq)
	}

	fftSize := cfg.FFTSize
	if fftSize <= 0 {
		fftSize = nextPowerOf2(len(segment))
	}

	if fftSize < len(segment) {
		return Result{}, fmt.Errorf("seam FFT size must cover the segment: %d < %d", fftSize, len(segment))
	}

	result := Result{MaxStep: MaxStep(segment)}

	sum := 0.0
	for i := 1; i < len(segment); i++ {
		sum += math.Abs(segment[i] - segment[i-1])
	}

	result.MeanStep = sum / float64(len(segment)-1)

	windowed := make([]float64, len(segment))
	copy(windowed, segment)
	vecmath.MulBlockInPlace(windowed, hannWindow(len(segment)))

	inData := make([]complex128, fftSize)
	for i, s := range windowed {
		inData[i] = complex(s, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Result{}, fmt.Errorf("seam fft plan: %w", err)
	}

	out := make([]complex128, fftSize)

	err = plan.Forward(out, inData)
	if err != nil {
		return Result{}, fmt.Errorf("seam fft: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for i := range bins {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	power := make([]float64, bins)
	vecmath.Power(power, re, im)

	splitBin := int(splitFreq * float64(fftSize) / cfg.SampleRate)
	if splitBin >= bins {
		splitBin = bins - 1
	}

	total := 0.0
	high := 0.0

	for i, p := range power {
		total += p
		if i >= splitBin {
			high += p
		}
	}

	if total > 1e-20 {
		result.HighBandRatio = high / total
	}

	return result, nil
}

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}

	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}

	return w
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}

	return size
}
