// Package seam measures the quality of loop wrap points in retained audio.
//
// A hard seam shows up two ways: as a large per-sample step in the time
// domain, and as excess high-frequency energy in the spectrum of a short
// window centered on the wrap. Analyze reports both so tests and offline
// tools can assert that a loop plays back click-free.
package seam
