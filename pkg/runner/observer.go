package runner

import (
	"github.com/golang/glog"

	"github.com/firmworks/hiltest.go/pkg/telemetry"
)

// LogObserver forwards telemetry events to glog at severities matching the
// device's own classification.
type LogObserver struct{}

// Event implements telemetry.Observer.
func (LogObserver) Event(ev telemetry.Event) {
	switch ev.Kind {
	case telemetry.EventInfo:
		glog.Infof("[device][%s] %s", ev.SourceLine, ev.Text)
	case telemetry.EventWarning:
		glog.Warningf("[device][%s] %s", ev.SourceLine, ev.Text)
	case telemetry.EventError:
		glog.Errorf("[device][%s] %s", ev.SourceLine, ev.Text)
	case telemetry.EventAssertOK:
		glog.V(1).Infof("assertion at [%s] passed", ev.SourceLine)
	case telemetry.EventAssertFail:
		glog.Errorf("assertion at [%s] failed: expected %q, got %q",
			ev.SourceLine, ev.Expected, ev.Got)
	case telemetry.EventTestFinish:
		glog.Info("received TEST_FINISH, wrapping up")
	case telemetry.EventMalformed:
		glog.Errorf("malformed line: %q", ev.Raw)
	}
}
