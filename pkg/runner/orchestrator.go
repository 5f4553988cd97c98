package runner

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/firmworks/hiltest.go/pkg/platform"
	"github.com/firmworks/hiltest.go/pkg/telemetry"
)

// TelemetryChannel combines line reads with release of the underlying
// device.
type TelemetryChannel interface {
	telemetry.LineReader
	Close() error
}

// ChannelOpener opens the telemetry channel once the target has been
// reset. Opening must acquire the device exclusively and fail fast when it
// cannot.
type ChannelOpener interface {
	OpenChannel() (TelemetryChannel, error)
}

// OpenChannelFunc is the func form of ChannelOpener.
type OpenChannelFunc func() (TelemetryChannel, error)

// OpenChannel implements ChannelOpener.
func (f OpenChannelFunc) OpenChannel() (TelemetryChannel, error) { return f() }

// Result captures everything observed during one run. Verdict alone decides
// the exit status; the rest feeds reporting.
type Result struct {
	Verdict Verdict
	// Session is the telemetry outcome, nil when the session never
	// started (bring-up or channel failure).
	Session  *telemetry.Outcome
	Duration time.Duration
}

// Runner executes one complete test: bring-up, reset, telemetry session,
// verdict. One Runner instance serves one run against one target; no two
// platform operations are ever in flight at once.
type Runner struct {
	Platform platform.Control
	Channel  ChannelOpener

	// Observer receives telemetry events. Defaults to LogObserver.
	Observer telemetry.Observer
}

// Run executes the test and returns its Result. Teardown (indicator to the
// verdict color, power off, probe disconnect) runs exactly once on every
// exit path, whatever went wrong before.
func (r *Runner) Run(ctx context.Context, elfPath string) (res Result) {
	start := time.Now()
	defer func() {
		res.Duration = time.Since(start)
		color := platform.LEDRed
		if res.Verdict == Passed {
			color = platform.LEDGreen
		}
		if err := r.Platform.SetIndicator(ctx, color); err != nil {
			glog.Warningf("couldn't set indicator: %v", err)
		}
		if err := r.Platform.SetPower(ctx, false); err != nil {
			glog.Warningf("couldn't power off the target: %v", err)
		}
		r.Platform.Disconnect()
		glog.Infof("verdict: %v", res.Verdict)
	}()

	if err := BringUp(ctx, r.Platform, elfPath); err != nil {
		glog.Errorf("bring-up failed: %v", err)
		return Result{Verdict: Failed}
	}

	if err := r.Platform.Reset(ctx); err != nil {
		glog.Errorf("hardware reset failed: %v", err)
		return Result{Verdict: Failed}
	}

	ch, err := r.Channel.OpenChannel()
	if err != nil {
		glog.Errorf("couldn't acquire the serial channel, check it is not used by another application: %v", err)
		return Result{Verdict: Failed}
	}
	defer ch.Close()

	observer := r.Observer
	if observer == nil {
		observer = LogObserver{}
	}
	session := &telemetry.Session{Lines: ch, Observer: observer}
	outcome := session.Run()
	logStats(outcome)

	verdict := Failed
	if outcome.Reason == telemetry.FinishReceived && outcome.Counters.Clean() {
		verdict = Passed
	}
	return Result{Verdict: verdict, Session: &outcome}
}

func logStats(o telemetry.Outcome) {
	switch o.Reason {
	case telemetry.ReadTimeout:
		glog.Error("serial timeout, no message arrived in time; check the test output and that TEST_FINISH is issued")
	case telemetry.ChannelClosed:
		glog.Error("serial channel closed before TEST_FINISH")
	}
	glog.Info("------ Stats ------")
	glog.Infof("Errors: %d", o.Counters.Errors)
	glog.Infof("Warnings: %d", o.Counters.Warnings)
	glog.Infof("Failed assertions: %d", o.Counters.AssertFails)
}
