package runner

import (
	"errors"
	"fmt"
)

// Sentinel bring-up failures.
var (
	// ErrBusBusy means another board is driving the shared SPI bus.
	ErrBusBusy = errors.New("SPI bus occupied")
	// ErrLoadTimeout means the probe daemon stalled while loading the
	// firmware image.
	ErrLoadTimeout = errors.New("firmware load timed out")
)

// Step identifies a bring-up step.
type Step int

const (
	// StepConnect attaches to the debug probe.
	StepConnect Step = iota
	// StepInit prepares platform state.
	StepInit
	// StepBusCheck verifies the shared SPI bus is free.
	StepBusCheck
	// StepBusEnable routes the shared SPI bus to the target.
	StepBusEnable
	// StepPower powers the target.
	StepPower
	// StepLoad programs the firmware image.
	StepLoad
)

// String returns the step name for diagnostics.
func (s Step) String() string {
	switch s {
	case StepConnect:
		return "probe connect"
	case StepInit:
		return "platform init"
	case StepBusCheck:
		return "bus check"
	case StepBusEnable:
		return "bus routing"
	case StepPower:
		return "power on"
	}
	return "firmware load"
}

// StepError is a bring-up failure tagged with the step it happened in.
type StepError struct {
	Step Step
	Err  error
}

// Error implements error.
func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *StepError) Unwrap() error { return e.Err }
