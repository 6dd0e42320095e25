// Package audiofile decodes audio files into split stereo float64 channels
// and encodes 16-bit PCM WAV, for offline tooling. It is not part of the
// real-time processing path.
package audiofile

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for file extensions without a decoder.
var ErrUnsupportedFormat = errors.New("audiofile: unsupported format")

// Clip holds decoded audio as split left/right channels. Mono sources are
// duplicated onto both channels.
type Clip struct {
	Left       []float64
	Right      []float64
	SampleRate int
}

// Frames returns the clip length in frames.
func (c *Clip) Frames() int { return len(c.Left) }

// Decode reads an audio file, selecting the decoder by extension.
// Supported: .wav, .aiff/.aif, .mp3, .ogg.
func Decode(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return decodeWAV(f)
	case ".aiff", ".aif":
		return decodeAIFF(f)
	case ".mp3":
		return decodeMP3(f)
	case ".ogg":
		return decodeOgg(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// clipFromInterleaved splits an interleaved float stream into a stereo clip.
func clipFromInterleaved(samples []float64, channels, sampleRate int) (*Clip, error) {
	if channels < 1 {
		return nil, fmt.Errorf("audiofile: invalid channel count: %d", channels)
	}

	if sampleRate <= 0 {
		return nil, fmt.Errorf("audiofile: invalid sample rate: %d", sampleRate)
	}

	frames := len(samples) / channels
	clip := &Clip{
		Left:       make([]float64, frames),
		Right:      make([]float64, frames),
		SampleRate: sampleRate,
	}

	for i := range frames {
		clip.Left[i] = samples[i*channels]
		if channels > 1 {
			clip.Right[i] = samples[i*channels+1]
		} else {
			clip.Right[i] = clip.Left[i]
		}
	}

	return clip, nil
}

func clamp16(v float64) int {
	scaled := math.Round(v * 32767)
	if scaled > 32767 {
		return 32767
	}

	if scaled < -32768 {
		return -32768
	}

	return int(scaled)
}
