package audiofile

import (
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWAV writes a clip as a stereo 16-bit PCM WAV file. Samples are
// clamped to [-1, 1] before quantization.
func WriteWAV(path string, clip *Clip) error {
	if clip == nil || clip.SampleRate <= 0 {
		return fmt.Errorf("audiofile: invalid clip")
	}

	if len(clip.Left) != len(clip.Right) {
		return fmt.Errorf("audiofile: channel length mismatch: %d != %d", len(clip.Left), len(clip.Right))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audiofile: %w", err)
	}

	enc := wav.NewEncoder(f, clip.SampleRate, 16, 2, 1)

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 2,
			SampleRate:  clip.SampleRate,
		},
		SourceBitDepth: 16,
		Data:           make([]int, 2*len(clip.Left)),
	}

	for i := range clip.Left {
		buf.Data[2*i] = clamp16(clip.Left[i])
		buf.Data[2*i+1] = clamp16(clip.Right[i])
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("audiofile: wav encode: %w", err)
	}

	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("audiofile: wav finalize: %w", err)
	}

	return f.Close()
}
