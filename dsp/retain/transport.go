package retain

// TransportState identifies the transport phase of the retainer.
type TransportState int

const (
	// StateLooping plays the loop buffer back continuously. Before the
	// first completed capture the buffer is silent, so looping is audibly
	// idle.
	StateLooping TransportState = iota
	// StateRecording writes live input into the loop buffer with a fade
	// envelope. Capture is blind: the wet path contributes nothing while
	// it is active.
	StateRecording
)

// String returns the state name.
func (s TransportState) String() string {
	switch s {
	case StateLooping:
		return "looping"
	case StateRecording:
		return "recording"
	default:
		return "unknown"
	}
}

// recordSample writes one enveloped input pair at the write cursor. When the
// cursor reaches the loop length the capture ends: the sample is consumed
// without a write or a read, the transport disarms, and playback resumes at
// the read cursor (reset to 0 when recording began).
func (r *Retain) recordSample(inL, inR float64) {
	if r.writePos >= r.loopSamples {
		r.armed = false
		r.state = StateLooping
		r.writePos = 0

		return
	}

	env := 1.0

	switch {
	case r.writePos < r.fadeSamples:
		env = float64(r.writePos) / float64(r.fadeSamples)
	case r.writePos >= r.loopSamples-r.fadeSamples:
		env = float64(r.loopSamples-1-r.writePos) / float64(r.fadeSamples)
	}

	r.bufL[r.writePos] = inL * env
	r.bufR[r.writePos] = inR * env
	r.writePos++
}

// loopSample reads one wet pair at the read cursor. Inside the tail fade
// zone the sample is summed with its head-offset counterpart so the wrap
// point cross-fades instead of clicking; an armed transport skips the
// crossfade because the head zone is about to be overwritten.
//
// On wrap the cursor restarts at the fade length (the head fade-in already
// served as half of the tail crossfade), unless a capture is armed, in which
// case the transport switches to recording with both cursors at 0.
func (r *Retain) loopSample() (wetL, wetR float64) {
	if !r.armed && r.readPos >= r.loopSamples-r.fadeSamples {
		head := r.readPos - (r.loopSamples - r.fadeSamples)
		wetL = r.bufL[r.readPos] + r.bufL[head]
		wetR = r.bufR[r.readPos] + r.bufR[head]
	} else {
		wetL = r.bufL[r.readPos]
		wetR = r.bufR[r.readPos]
	}

	r.readPos++
	if r.readPos >= r.loopSamples {
		if r.armed {
			r.state = StateRecording
			r.readPos = 0
		} else {
			r.readPos = r.fadeSamples
		}
	}

	return wetL, wetR
}
