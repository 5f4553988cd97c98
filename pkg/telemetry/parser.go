package telemetry

import "strings"

// Message types on the wire.
const (
	typeInfo    = "INFO"
	typeWarning = "WARNING"
	typeError   = "ERROR"
	typeSystem  = "SYSTEM"
)

// SYSTEM message bodies.
const (
	sysAssertOK   = "ASSERT_OK"
	sysAssertFail = "ASSERT_FAIL"
	sysTestFinish = "TEST_FINISH"
)

// DecodeASCII decodes raw bytes as ASCII text. Non-ASCII bytes are replaced
// with a \xNN escape so a corrupted line never fails to decode.
func DecodeASCII(raw []byte) string {
	const hex = "0123456789abcdef"
	var b strings.Builder
	b.Grow(len(raw))
	for _, c := range raw {
		if c < 0x80 {
			b.WriteByte(c)
		} else {
			b.WriteString(`\x`)
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0xf])
		}
	}
	return b.String()
}

// ParseLine parses one physical line into an Event. It is total and
// stateless: any input that does not match the wire format yields an
// EventMalformed carrying the decoded text, never an error.
func ParseLine(raw []byte) Event {
	line := strings.TrimSuffix(DecodeASCII(raw), "\r\n")
	fields := strings.Split(line, ";")
	if len(fields) < 3 {
		return Event{Kind: EventMalformed, Raw: line}
	}
	src := strings.TrimSpace(fields[0])
	body := strings.TrimSpace(fields[2])
	switch strings.TrimSpace(fields[1]) {
	case typeInfo:
		return Event{Kind: EventInfo, SourceLine: src, Text: body}
	case typeWarning:
		return Event{Kind: EventWarning, SourceLine: src, Text: body}
	case typeError:
		return Event{Kind: EventError, SourceLine: src, Text: body}
	case typeSystem:
		switch body {
		case sysAssertOK:
			return Event{Kind: EventAssertOK, SourceLine: src}
		case sysAssertFail:
			// got and expected ride in two extra fields, in that order.
			if len(fields) < 5 {
				return Event{Kind: EventMalformed, Raw: line}
			}
			return Event{
				Kind:       EventAssertFail,
				SourceLine: src,
				Got:        strings.TrimSpace(fields[3]),
				Expected:   strings.TrimSpace(fields[4]),
			}
		case sysTestFinish:
			return Event{Kind: EventTestFinish, SourceLine: src}
		}
		// Unknown SYSTEM bodies are treated as line noise, not silently
		// dropped, so a firmware/runner protocol mismatch stays visible.
		return Event{Kind: EventMalformed, Raw: line}
	}
	return Event{Kind: EventMalformed, Raw: line}
}
