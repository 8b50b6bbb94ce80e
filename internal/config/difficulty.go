package config

import "github.com/MilleBA/Pac-Man/internal/core"

// SpeedRange clamps and steps the speed rate of a session. A rate of 1.0
// runs both cycles at their configured intervals; 2.0 runs them twice as fast.
type SpeedRange struct {
	Min, Max, Step float64
}

// SpeedRangeOf extracts the speed range from gameplay settings.
func SpeedRangeOf(g MazeGameplay) SpeedRange {
	return SpeedRange{Min: g.MinSpeed, Max: g.MaxSpeed, Step: g.SpeedStep}
}

// Clamp restricts a rate to the range.
func (r SpeedRange) Clamp(rate float64) float64 {
	return core.ClampF(rate, r.Min, r.Max)
}

// Up returns the next faster rate for a manual change. A rate already at or
// above Max is left alone.
func (r SpeedRange) Up(rate float64) float64 {
	if rate >= r.Max {
		return rate
	}
	return core.ClampF(rate+r.Step, r.Min, r.Max)
}

// Down returns the next slower rate for a manual change. A rate already at or
// below Min is left alone.
func (r SpeedRange) Down(rate float64) float64 {
	if rate <= r.Min {
		return rate
	}
	return core.ClampF(rate-r.Step, r.Min, r.Max)
}

// LevelUp returns the rate after a level change. Level changes always add a
// step; Max only bounds manual changes.
func (r SpeedRange) LevelUp(rate float64) float64 {
	return max(rate+r.Step, r.Min)
}
