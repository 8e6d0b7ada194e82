// Package anim provides the keyframe utilities scene animations are built
// from: a time sensor producing a cycle fraction, and interpolators
// mapping a fraction onto keyed scalar, position and orientation values.
//
// Everything here is a pure function of its inputs; nothing is coupled to
// the render pipeline.
package anim

import (
	"math"
	"time"
)

// TimeSensor turns elapsed time into a fraction of a cycle.
type TimeSensor struct {
	CycleInterval time.Duration
	Loop          bool
}

// Fraction returns how far into the current cycle now is, in [0, 1).
// Time before start yields 0. A sensor that does not loop holds 1 once
// its first cycle has ended. A non-positive CycleInterval yields 0.
func (s TimeSensor) Fraction(start, now time.Time) float64 {
	if s.CycleInterval <= 0 {
		return 0
	}
	elapsed := now.Sub(start)
	if elapsed <= 0 {
		return 0
	}
	if !s.Loop && elapsed >= s.CycleInterval {
		return 1
	}
	return float64(elapsed%s.CycleInterval) / float64(s.CycleInterval)
}

// WallFraction returns the fraction of the cycle the wall clock is in,
// measuring cycles from the Unix epoch. Looping sensors with no explicit
// start time behave this way.
func (s TimeSensor) WallFraction(now time.Time) float64 {
	if s.CycleInterval <= 0 {
		return 0
	}
	secs := float64(now.UnixNano()) / float64(time.Second)
	cycle := s.CycleInterval.Seconds()
	return math.Mod(secs, cycle) / cycle
}
