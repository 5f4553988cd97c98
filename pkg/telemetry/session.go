package telemetry

import (
	"errors"
	"os"
)

// ErrReadTimeout is returned by a LineReader when no complete line arrives
// within its read timeout.
var ErrReadTimeout = errors.New("telemetry: read timeout")

// LineReader yields one physical \r\n-terminated line per call. io.EOF (or
// any non-timeout error) means the channel is gone.
type LineReader interface {
	ReadLine() ([]byte, error)
}

// StopReason tells why a session stopped consuming lines.
type StopReason int

const (
	// FinishReceived means the device reported TEST_FINISH.
	FinishReceived StopReason = iota
	// ReadTimeout means no line arrived in time. This is the dominant
	// failure mode of hung or crashed firmware.
	ReadTimeout
	// ChannelClosed means the channel ended before TEST_FINISH.
	ChannelClosed
)

// String returns the reason name for diagnostics.
func (r StopReason) String() string {
	switch r {
	case FinishReceived:
		return "finish"
	case ReadTimeout:
		return "timeout"
	}
	return "channel closed"
}

// Counters tallies the counted events of one session. Counts only ever
// grow while the session runs.
type Counters struct {
	Errors      int
	Warnings    int
	AssertFails int
}

// Clean reports whether nothing was counted.
func (c Counters) Clean() bool {
	return c.Errors == 0 && c.Warnings == 0 && c.AssertFails == 0
}

// Outcome is the final state of one session: the counters frozen at the
// moment the session stopped, and why it stopped.
type Outcome struct {
	Counters Counters
	Reason   StopReason
}

// Observer receives every parsed event as the session consumes it.
type Observer interface {
	Event(Event)
}

// ObserveFunc is the func form of Observer.
type ObserveFunc func(Event)

// Event implements Observer.
func (f ObserveFunc) Event(ev Event) { f(ev) }

// Session consumes the telemetry stream of one test run. A fresh Session
// is created per run and discarded with its Outcome.
type Session struct {
	Lines LineReader

	// Observer gets every event, including malformed ones. Optional.
	Observer Observer
}

// Run reads lines until TEST_FINISH, a read timeout or the end of the
// stream. Malformed lines are reported and skipped. After TEST_FINISH no
// further line is read.
func (s *Session) Run() Outcome {
	var c Counters
	for {
		raw, err := s.Lines.ReadLine()
		if err != nil {
			if errors.Is(err, ErrReadTimeout) || os.IsTimeout(err) {
				return Outcome{Counters: c, Reason: ReadTimeout}
			}
			return Outcome{Counters: c, Reason: ChannelClosed}
		}
		ev := ParseLine(raw)
		if s.Observer != nil {
			s.Observer.Event(ev)
		}
		switch ev.Kind {
		case EventWarning:
			c.Warnings++
		case EventError:
			c.Errors++
		case EventAssertFail:
			c.AssertFails++
		case EventTestFinish:
			return Outcome{Counters: c, Reason: FinishReceived}
		}
	}
}
