// Command retainlive runs the retainer on the default duplex audio device.
//
// Usage:
//
//	retainlive [-rate 48000] [-blend 50] [-loop 5] [-fade 1] [-block 256]
//
// Live input passes through the effect to the output. Pressing Enter arms a
// capture pass; recording starts at the next loop boundary and the captured
// passage then loops under the live signal. Ctrl-D quits.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"sync/atomic"

	pa "github.com/gordonklaus/portaudio"

	"github.com/cwbudde/algo-retain/dsp/retain"
)

func main() {
	var (
		rate  = flag.Float64("rate", 48000, "sample rate in Hz")
		blend = flag.Float64("blend", 50, "dry/wet blend in [0, 100]")
		loop  = flag.Float64("loop", 5, "loop duration in seconds")
		fade  = flag.Float64("fade", 1, "fade duration in seconds")
		block = flag.Int("block", 256, "frames per callback")
	)

	flag.Parse()

	err := run(*rate, *blend, *loop, *fade, *block)
	if err != nil {
		fmt.Fprintln(os.Stderr, "retainlive:", err)
		os.Exit(1)
	}
}

func run(rate, blend, loop, fade float64, block int) error {
	if block <= 0 {
		return fmt.Errorf("block size must be > 0: %d", block)
	}

	effect, err := retain.New(rate,
		retain.WithLoopSeconds(loop),
		retain.WithFadeSeconds(fade),
	)
	if err != nil {
		return err
	}

	err = effect.SetBlend(blend)
	if err != nil {
		return err
	}

	err = pa.Initialize()
	if err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}
	defer pa.Terminate()

	// The audio callback runs on the real-time thread; the only shared
	// state with the main goroutine is this flag.
	var armRequest atomic.Bool

	left := make([]float64, block)
	right := make([]float64, block)

	callback := func(in, out [][]float32) {
		if armRequest.CompareAndSwap(true, false) {
			effect.Arm()
		}

		n := min(len(in[0]), block)

		for i := range n {
			left[i] = float64(in[0][i])
			right[i] = float64(in[1][i])
		}

		_ = effect.ProcessStereoInPlace(left[:n], right[:n])

		for i := range n {
			out[0][i] = float32(left[i])
			out[1][i] = float32(right[i])
		}
	}

	stream, err := pa.OpenDefaultStream(2, 2, rate, block, callback)
	if err != nil {
		return fmt.Errorf("portaudio open: %w", err)
	}
	defer stream.Close()

	err = stream.Start()
	if err != nil {
		return fmt.Errorf("portaudio start: %w", err)
	}
	defer stream.Stop()

	fmt.Printf("retainer running: loop %.2fs, fade %.2fs, blend %.0f\n",
		effect.LoopSeconds(), effect.FadeSeconds(), effect.Blend())
	fmt.Println("press Enter to capture a new loop, Ctrl-D to quit")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		armRequest.Store(true)
		fmt.Println("armed: capture starts at the next loop boundary")
	}

	return scanner.Err()
}
