package telemetry

// EventKind tags the variants of Event.
type EventKind int

const (
	// EventInfo is an informational message, not counted.
	EventInfo EventKind = iota
	// EventWarning is a device-side warning.
	EventWarning
	// EventError is a device-side error.
	EventError
	// EventAssertOK is a passed firmware assertion.
	EventAssertOK
	// EventAssertFail is a failed firmware assertion.
	EventAssertFail
	// EventTestFinish ends the run.
	EventTestFinish
	// EventMalformed is anything that did not parse.
	EventMalformed
)

// String returns the kind name for diagnostics.
func (k EventKind) String() string {
	switch k {
	case EventInfo:
		return "INFO"
	case EventWarning:
		return "WARNING"
	case EventError:
		return "ERROR"
	case EventAssertOK:
		return "ASSERT_OK"
	case EventAssertFail:
		return "ASSERT_FAIL"
	case EventTestFinish:
		return "TEST_FINISH"
	}
	return "MALFORMED"
}

// Event is one parsed telemetry message.
type Event struct {
	Kind EventKind

	// SourceLine is the firmware-side source line number reported by the
	// device, opaque to the host. Empty for EventMalformed.
	SourceLine string

	// Text is the message body of Info, Warning and Error events.
	Text string

	// Got and Expected carry the compared values of EventAssertFail.
	Got      string
	Expected string

	// Raw holds the decoded line of an EventMalformed.
	Raw string
}
