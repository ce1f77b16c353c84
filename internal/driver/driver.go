// Package driver advances a simulation either on a fixed interval or one
// tick per external trigger.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/DauteRR/Random-Walks/internal/grid"
	"github.com/DauteRR/Random-Walks/internal/logging"
	"golang.org/x/time/rate"
)

// ErrNoTicker is returned when a Driver has nothing to advance.
var ErrNoTicker = errors.New("driver has no ticker")

// Ticker is the part of a simulation the driver needs.
// *simulation.Simulation satisfies it.
type Ticker interface {
	Tick() []grid.Cell
	Steps() int
	Done() bool
}

// Reason says why a run stopped.
type Reason string

const (
	// ReasonFinished means every walk has finished (or there were none).
	ReasonFinished Reason = "finished"
	// ReasonMaxSteps means the configured step limit was reached.
	ReasonMaxSteps Reason = "max_steps"
	// ReasonCancelled means the context ended the run.
	ReasonCancelled Reason = "cancelled"
	// ReasonExhausted means the manual trigger channel was closed.
	ReasonExhausted Reason = "exhausted"
	// ReasonFailed means OnTick returned an error.
	ReasonFailed Reason = "failed"
)

// Outcome summarizes a finished run.
type Outcome struct {
	Steps  int    `json:"steps"`
	Reason Reason `json:"reason"`
}

// Driver calls Tick serially on Sim until a stop condition holds.
// A Driver must not be run concurrently with itself.
type Driver struct {
	Sim Ticker

	// Interval paces timer-driven runs. Zero runs ticks back to back.
	Interval time.Duration

	// MaxSteps caps the ticks run by one call. Zero means no cap.
	MaxSteps int

	// OnTick, if set, receives the step counter and the positions after every
	// tick. A non-nil error stops the run and is returned to the caller.
	OnTick func(step int, cells []grid.Cell) error

	Logger *slog.Logger
}

// Run drives the simulation on Interval until it finishes, MaxSteps ticks
// have run, or ctx is done. Cancellation is a normal stop and returns a nil error.
func (d *Driver) Run(ctx context.Context) (Outcome, error) {
	if d.Sim == nil {
		return Outcome{}, ErrNoTicker
	}

	var limiter *rate.Limiter
	if d.Interval > 0 {
		limiter = rate.NewLimiter(rate.Every(d.Interval), 1)
	}

	d.logger().Debug("driver started", "mode", "timer", "interval", d.Interval, "max_steps", d.MaxSteps)

	ticks := 0
	for {
		if reason, stop := d.shouldStop(ticks); stop {
			return d.finish(reason), nil
		}

		if limiter != nil {
			// Wait only fails when ctx ends before the next tick is due.
			if err := limiter.Wait(ctx); err != nil {
				return d.finish(ReasonCancelled), nil
			}
		} else if ctx.Err() != nil {
			return d.finish(ReasonCancelled), nil
		}

		if err := d.tick(ctx); err != nil {
			return d.finish(ReasonFailed), err
		}
		ticks++
	}
}

// RunManual runs one tick per value received on triggers. It stops when the
// simulation finishes, MaxSteps ticks have run, triggers is closed, or ctx is done.
func (d *Driver) RunManual(ctx context.Context, triggers <-chan struct{}) (Outcome, error) {
	if d.Sim == nil {
		return Outcome{}, ErrNoTicker
	}

	d.logger().Debug("driver started", "mode", "manual", "max_steps", d.MaxSteps)

	ticks := 0
	for {
		if reason, stop := d.shouldStop(ticks); stop {
			return d.finish(reason), nil
		}

		select {
		case <-ctx.Done():
			return d.finish(ReasonCancelled), nil
		case _, ok := <-triggers:
			if !ok {
				return d.finish(ReasonExhausted), nil
			}
		}

		if err := d.tick(ctx); err != nil {
			return d.finish(ReasonFailed), err
		}
		ticks++
	}
}

func (d *Driver) shouldStop(ticks int) (Reason, bool) {
	if d.Sim.Done() {
		return ReasonFinished, true
	}
	if d.MaxSteps > 0 && ticks >= d.MaxSteps {
		return ReasonMaxSteps, true
	}
	return "", false
}

func (d *Driver) tick(ctx context.Context) error {
	cells := d.Sim.Tick()
	step := d.Sim.Steps()

	d.logger().Log(ctx, logging.LevelTrace, "tick", "step", step, "walks", len(cells))

	if d.OnTick == nil {
		return nil
	}
	if err := d.OnTick(step, cells); err != nil {
		return fmt.Errorf("step %d: %w", step, err)
	}
	return nil
}

func (d *Driver) finish(reason Reason) Outcome {
	out := Outcome{Steps: d.Sim.Steps(), Reason: reason}
	d.logger().Debug("driver stopped", "steps", out.Steps, "reason", string(out.Reason))
	return out
}

func (d *Driver) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d.Logger
}
