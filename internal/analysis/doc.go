// Package analysis looks for oscillation in a recorded servo run.
//
// A position loop with too much gain or too little damping hunts around
// the seek position instead of settling. [Analyze] takes the spectrum of
// the tracking error over the settled tail of a run and reports the
// dominant frequency and its amplitude.
package analysis
