// Package telemetry decodes the diagnostic stream a target board emits
// over its serial console during a firmware test run.
package telemetry

// The wire format is line oriented. Each message is one physical line
// terminated by \r\n with semicolon separated fields:
//
//	<source-line>;<TYPE>;<body>[;<got>;<expected>]
//
// TYPE is one of INFO, WARNING, ERROR or SYSTEM. SYSTEM messages carry the
// test lifecycle: ASSERT_OK, ASSERT_FAIL (with got/expected values) and
// TEST_FINISH which ends the run.
//
// The link is a raw UART, so the parser assumes nothing about the input:
// any line that does not match the format becomes a Malformed event that
// the session logs and skips. A noisy link degrades diagnostics, it never
// crashes a run.
//
// Producer: device firmware under test
// Consumer: the test runner's telemetry session
