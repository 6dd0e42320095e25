// Package retain implements a stereo sound retainer: a live looper that
// captures a fixed-length passage of the input on demand and plays it back
// as a seamless loop, cross-faded against the dry signal.
//
// A trigger arms a capture pass. Recording starts at the next loop boundary,
// writes exactly one loop length of input with a linear fade envelope at the
// head and tail, and then returns to looped playback. At the loop seam the
// tail of the buffer is summed with the corresponding head samples so the
// wrap point stays click-free. A blend control (0..100) sets the dry/wet
// balance through a logarithmic crossfade curve, smoothed per sample to
// avoid zipper noise.
//
// The processor is stereo, real-time safe (no allocations in the processing
// path), and not thread-safe.
package retain
