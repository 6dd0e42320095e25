// Command retainsim runs the retainer offline over an audio file.
//
// Usage:
//
//	retainsim -in take.wav -out retained.wav [flags]
//
// The input is decoded (WAV, AIFF, MP3, or Ogg Vorbis), processed block by
// block through the plugin port interface with a trigger pulse at the
// requested time, and written back as a stereo 16-bit WAV. Seam metrics of
// the processed tail are printed afterwards.
//
// Examples:
//
//	retainsim -in take.wav -out retained.wav -arm 0.5 -tail 12
//	retainsim -in riff.mp3 -out loop.wav -blend 75 -loop 2 -fade 0.25
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-retain/dsp/retain"
	"github.com/cwbudde/algo-retain/internal/audiofile"
	"github.com/cwbudde/algo-retain/measure/seam"
	"github.com/cwbudde/algo-retain/plugin"
)

func main() {
	var (
		inPath  = flag.String("in", "", "input audio file (wav/aiff/mp3/ogg)")
		outPath = flag.String("out", "", "output WAV file")
		blend   = flag.Float64("blend", 100, "dry/wet blend in [0, 100]")
		armAt   = flag.Float64("arm", 0, "trigger time in seconds")
		tail    = flag.Float64("tail", 0, "extra seconds of silence appended to the input")
		loop    = flag.Float64("loop", 5, "loop duration in seconds")
		fade    = flag.Float64("fade", 1, "fade duration in seconds")
		maxLoop = flag.Float64("maxloop", 20, "buffer capacity in seconds")
		block   = flag.Int("block", 512, "processing block size in frames")
	)

	flag.Parse()

	if *inPath == "" || *outPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	err := run(*inPath, *outPath, *blend, *armAt, *tail, *loop, *fade, *maxLoop, *block)
	if err != nil {
		fmt.Fprintln(os.Stderr, "retainsim:", err)
		os.Exit(1)
	}
}

func run(inPath, outPath string, blend, armAt, tail, loop, fade, maxLoop float64, block int) error {
	if block <= 0 {
		return fmt.Errorf("block size must be > 0: %d", block)
	}

	if armAt < 0 {
		return fmt.Errorf("arm time must be >= 0: %f", armAt)
	}

	clip, err := audiofile.Decode(inPath)
	if err != nil {
		return err
	}

	sampleRate := float64(clip.SampleRate)

	inst, err := plugin.New(sampleRate,
		retain.WithLoopSeconds(loop),
		retain.WithFadeSeconds(fade),
		retain.WithMaxLoopSeconds(maxLoop),
	)
	if err != nil {
		return err
	}

	frames := clip.Frames() + int(tail*sampleRate)
	armFrame := int(armAt * sampleRate)

	if armFrame >= frames {
		return fmt.Errorf("arm time %gs is past the end of the material (%d frames)", armAt, frames)
	}

	var (
		blendCtl   = blend
		triggerCtl float64

		inL  = make([]float64, block)
		inR  = make([]float64, block)
		outL = make([]float64, block)
		outR = make([]float64, block)
	)

	for port, buf := range map[plugin.Port][]float64{
		plugin.PortInputL:  inL,
		plugin.PortInputR:  inR,
		plugin.PortOutputL: outL,
		plugin.PortOutputR: outR,
	} {
		if err := inst.ConnectAudio(port, buf); err != nil {
			return err
		}
	}

	if err := inst.ConnectControl(plugin.PortBlend, &blendCtl); err != nil {
		return err
	}

	if err := inst.ConnectControl(plugin.PortTrigger, &triggerCtl); err != nil {
		return err
	}

	inst.Activate()

	out := &audiofile.Clip{
		Left:       make([]float64, frames),
		Right:      make([]float64, frames),
		SampleRate: clip.SampleRate,
	}

	for start := 0; start < frames; start += block {
		n := min(block, frames-start)

		for i := range n {
			src := start + i
			if src < clip.Frames() {
				inL[i] = clip.Left[src]
				inR[i] = clip.Right[src]
			} else {
				inL[i] = 0
				inR[i] = 0
			}
		}

		// Pulse the trigger high during the block containing the arm
		// frame, back low afterwards.
		if armFrame >= start && armFrame < start+n {
			triggerCtl = 1
		} else {
			triggerCtl = 0
		}

		if err := inst.Run(n); err != nil {
			return err
		}

		copy(out.Left[start:start+n], outL[:n])
		copy(out.Right[start:start+n], outR[:n])
	}

	if err := audiofile.WriteWAV(outPath, out); err != nil {
		return err
	}

	return report(os.Stdout, inst, out, clip.Frames())
}

// report prints processing and seam statistics for the rendered output.
func report(w *os.File, inst *plugin.Instance, out *audiofile.Clip, inputFrames int) error {
	effect := inst.Effect()

	window := min(8192, out.Frames())
	segment := out.Left[out.Frames()-window:]

	metrics, err := seam.Analyze(segment, seam.Config{SampleRate: float64(out.SampleRate)})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "input frames\t%d\n", inputFrames)
	fmt.Fprintf(tw, "output frames\t%d\n", out.Frames())
	fmt.Fprintf(tw, "loop / fade\t%d / %d samples\n", effect.LoopSamples(), effect.FadeSamples())
	fmt.Fprintf(tw, "final state\t%v (armed=%v)\n", effect.State(), effect.Armed())
	fmt.Fprintf(tw, "tail max step\t%.6f\n", metrics.MaxStep)
	fmt.Fprintf(tw, "tail mean step\t%.6f\n", metrics.MeanStep)
	fmt.Fprintf(tw, "tail high-band ratio\t%.6f\n", metrics.HighBandRatio)

	return tw.Flush()
}
