// Package constants provides named defaults used throughout the random walks
// codebase. The values mirror the original interactive program.
package constants

import "time"

// Simulation defaults
const (
	// DefaultDensity is the starting point density. It maps to a 399x399 grid.
	DefaultDensity = 160000

	// DefaultWalks is the number of randomly placed walks when none are given.
	DefaultWalks = 1

	// DefaultAllowCollisions matches the original program, which starts with
	// collisions allowed.
	DefaultAllowCollisions = true

	// DefaultMaxSteps of 0 runs until every walk has finished.
	DefaultMaxSteps = 0

	// MaxCells caps rows*columns so the occupancy table stays in memory.
	MaxCells = 1 << 26
)

// Timer constants. The original delay slider ranged from 1ms to 1001ms;
// 0 additionally runs ticks back to back.
const (
	// DefaultDelay is the interval between periodic ticks.
	DefaultDelay = 100 * time.Millisecond

	// MinDelay disables pacing.
	MinDelay = 0

	// MaxDelay is the longest tick interval.
	MaxDelay = 1001 * time.Millisecond
)

// Trigger selects what advances the simulation.
type Trigger string

const (
	// TriggerTimer advances one tick per timer interval.
	TriggerTimer Trigger = "timer"

	// TriggerManual advances one tick per "next" request.
	TriggerManual Trigger = "manual"
)

// Valid returns true if the trigger is a recognized value.
func (t Trigger) Valid() bool {
	switch t {
	case TriggerTimer, TriggerManual:
		return true
	}
	return false
}

// String returns the string representation of the trigger.
func (t Trigger) String() string {
	return string(t)
}
