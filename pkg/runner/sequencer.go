package runner

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/golang/glog"

	"github.com/firmworks/hiltest.go/pkg/platform"
)

// DefaultLoadTimeout bounds the firmware load exchange with the probe
// daemon.
const DefaultLoadTimeout = 60 * time.Second

// BringUp walks the target from power-off to firmware-loaded: probe
// connect, platform init, shared-bus check, bus routing, power on,
// indicator, image load. It stops at the first failing step and performs no
// teardown; the caller owns power and probe release on every path.
func BringUp(ctx context.Context, ctl platform.Control, elfPath string) error {
	if err := ctl.Connect(ctx); err != nil {
		glog.Errorf("couldn't connect to the debug probe: %v", err)
		return &StepError{Step: StepConnect, Err: err}
	}
	if err := ctl.Initialize(ctx); err != nil {
		return &StepError{Step: StepInit, Err: err}
	}

	free, err := ctl.IsBusFree(ctx)
	if err != nil {
		return &StepError{Step: StepBusCheck, Err: err}
	}
	if !free {
		glog.Error("SPI bus is occupied, check that all other boards released it")
		return &StepError{Step: StepBusCheck, Err: ErrBusBusy}
	}

	// Bus routing must be up before power, the target must not come up on
	// a floating bus.
	if err := ctl.SetBusEnabled(ctx, true); err != nil {
		return &StepError{Step: StepBusEnable, Err: err}
	}
	if err := ctl.SetPower(ctx, true); err != nil {
		return &StepError{Step: StepPower, Err: err}
	}

	// The white indicator is purely informational; a dead LED does not
	// fail the run.
	if err := ctl.BlinkIndicator(ctx, platform.LEDWhite); err != nil {
		glog.Warningf("indicator blink failed: %v", err)
	}
	if err := ctl.SetIndicator(ctx, platform.LEDWhite); err != nil {
		glog.Warningf("indicator set failed: %v", err)
	}

	loadCtx, cancel := context.WithTimeout(ctx, DefaultLoadTimeout)
	defer cancel()
	if err := ctl.LoadImage(loadCtx, elfPath); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
			glog.Error("communication with the probe daemon timed out while loading firmware")
			return &StepError{Step: StepLoad, Err: ErrLoadTimeout}
		}
		return &StepError{Step: StepLoad, Err: err}
	}
	return nil
}
