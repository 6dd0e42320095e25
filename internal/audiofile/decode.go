package audiofile

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

func decodeWAV(f *os.File) (*Clip, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("audiofile: not a valid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("audiofile: wav decode: %w", err)
	}

	return clipFromIntBuffer(buf)
}

func decodeAIFF(f *os.File) (*Clip, error) {
	dec := aiff.NewDecoder(f)

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("audiofile: aiff decode: %w", err)
	}

	return clipFromIntBuffer(buf)
}

func clipFromIntBuffer(buf *goaudio.IntBuffer) (*Clip, error) {
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("audiofile: empty PCM buffer")
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = 16
	}

	scale := 1.0 / float64(int(1)<<(bitDepth-1))

	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float64(v) * scale
	}

	return clipFromInterleaved(samples, buf.Format.NumChannels, buf.Format.SampleRate)
}

func decodeMP3(f *os.File) (*Clip, error) {
	dec, err := gomp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("audiofile: mp3 decode: %w", err)
	}

	// go-mp3 emits 16-bit little-endian stereo PCM regardless of the
	// source channel layout.
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("audiofile: mp3 read: %w", err)
	}

	samples := make([]float64, len(raw)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(raw[2*i : 2*i+2]))
		samples[i] = float64(v) / 32768.0
	}

	return clipFromInterleaved(samples, 2, dec.SampleRate())
}

func decodeOgg(f *os.File) (*Clip, error) {
	dec, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("audiofile: ogg decode: %w", err)
	}

	var data []float32

	chunk := make([]float32, 4096*dec.Channels())
	for {
		n, err := dec.Read(chunk)
		if n > 0 {
			data = append(data, chunk[:n]...)
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("audiofile: ogg read: %w", err)
		}
	}

	samples := make([]float64, len(data))
	for i, v := range data {
		samples[i] = float64(v)
	}

	return clipFromInterleaved(samples, dec.Channels(), dec.SampleRate())
}
