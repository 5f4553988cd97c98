// Package link opens the target's serial console as an exclusive,
// timeout-bounded line channel.
package link

import (
	"bytes"
	"errors"
	"time"

	"go.bug.st/serial"

	"github.com/firmworks/hiltest.go/pkg/telemetry"
)

// ErrBusy means another process holds the serial device (screen, a second
// runner). Acquisition is never retried.
var ErrBusy = errors.New("link: serial device busy")

var lineEnd = []byte("\r\n")

// Config describes how to open the serial channel.
type Config struct {
	// Device is the tty device node.
	Device string
	// BaudRate of the console link.
	BaudRate int
	// ReadTimeout bounds the wait for the first byte of a line.
	ReadTimeout time.Duration
	// InterByteTimeout bounds the gap inside a partially received line.
	InterByteTimeout time.Duration
}

// DefaultConfig matches the device firmware's console settings.
func DefaultConfig(device string) Config {
	return Config{
		Device:           device,
		BaudRate:         115200,
		ReadTimeout:      10 * time.Second,
		InterByteTimeout: 10 * time.Second,
	}
}

// Serial is an open serial channel delivering one \r\n-terminated line per
// ReadLine call. It implements telemetry.LineReader.
type Serial struct {
	port    serial.Port
	cfg     Config
	pending []byte
}

// Open acquires the serial device exclusively. A device held by another
// process fails fast with ErrBusy.
func Open(cfg Config) (*Serial, error) {
	port, err := serial.Open(cfg.Device, &serial.Mode{BaudRate: cfg.BaudRate})
	if err != nil {
		var pe *serial.PortError
		if errors.As(err, &pe) && pe.Code() == serial.PortBusy {
			return nil, ErrBusy
		}
		return nil, err
	}
	return &Serial{port: port, cfg: cfg}, nil
}

// ReadLine implements telemetry.LineReader. The line is returned with its
// \r\n terminator; bytes following the terminator are kept for the next
// call. A silent link yields telemetry.ErrReadTimeout, a stalled one (gap
// inside a line) as well.
func (s *Serial) ReadLine() ([]byte, error) {
	buf := make([]byte, 256)
	for {
		if i := bytes.Index(s.pending, lineEnd); i >= 0 {
			line := append([]byte(nil), s.pending[:i+len(lineEnd)]...)
			s.pending = append(s.pending[:0], s.pending[i+len(lineEnd):]...)
			return line, nil
		}
		timeout := s.cfg.ReadTimeout
		if len(s.pending) > 0 {
			timeout = s.cfg.InterByteTimeout
		}
		if err := s.port.SetReadTimeout(timeout); err != nil {
			return nil, err
		}
		n, err := s.port.Read(buf)
		if n > 0 {
			// Consume the bytes before looking at the error, so a line
			// delivered together with the stream end is not lost.
			s.pending = append(s.pending, buf[:n]...)
			continue
		}
		if err != nil {
			return nil, err
		}
		// go.bug.st/serial signals an expired read timeout with an
		// empty read.
		return nil, telemetry.ErrReadTimeout
	}
}

// Close releases the device.
func (s *Serial) Close() error {
	return s.port.Close()
}
