package link

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.bug.st/serial"

	"github.com/firmworks/hiltest.go/pkg/telemetry"
)

// readStep is one scripted Read result; nil data models an expired read
// timeout (empty read).
type readStep struct {
	data []byte
	err  error
}

// fakePort scripts Read results. Only the methods the channel uses are
// implemented.
type fakePort struct {
	serial.Port

	steps    []readStep
	timeouts []time.Duration
	closed   bool
}

func (p *fakePort) SetReadTimeout(t time.Duration) error {
	p.timeouts = append(p.timeouts, t)
	return nil
}

func (p *fakePort) Read(buf []byte) (int, error) {
	if len(p.steps) == 0 {
		return 0, io.EOF
	}
	step := p.steps[0]
	p.steps = p.steps[1:]
	return copy(buf, step.data), step.err
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func newSerial(chunks ...[]byte) (*Serial, *fakePort) {
	port := &fakePort{}
	for _, c := range chunks {
		port.steps = append(port.steps, readStep{data: c})
	}
	return &Serial{port: port, cfg: DefaultConfig("/dev/ttyUSB1")}, port
}

func TestReadLineWhole(t *testing.T) {
	s, _ := newSerial([]byte("1;INFO;hello\r\n"))
	line, err := s.ReadLine()
	require.NoError(t, err)
	require.Equal(t, []byte("1;INFO;hello\r\n"), line)
}

func TestReadLineAcrossChunks(t *testing.T) {
	s, port := newSerial([]byte("1;INFO;he"), []byte("llo\r"), []byte("\n"))
	line, err := s.ReadLine()
	require.NoError(t, err)
	require.Equal(t, []byte("1;INFO;hello\r\n"), line)
	// First wait uses the read timeout, the rest the inter-byte timeout.
	require.Equal(t, []time.Duration{
		s.cfg.ReadTimeout, s.cfg.InterByteTimeout, s.cfg.InterByteTimeout,
	}, port.timeouts)
}

func TestReadLineKeepsRemainder(t *testing.T) {
	s, _ := newSerial([]byte("1;INFO;a\r\n2;INFO;b\r\n"))
	line, err := s.ReadLine()
	require.NoError(t, err)
	require.Equal(t, []byte("1;INFO;a\r\n"), line)
	// Second line comes from the buffered remainder, no read needed.
	line, err = s.ReadLine()
	require.NoError(t, err)
	require.Equal(t, []byte("2;INFO;b\r\n"), line)
}

func TestReadLineTimeout(t *testing.T) {
	s, _ := newSerial(nil)
	_, err := s.ReadLine()
	require.ErrorIs(t, err, telemetry.ErrReadTimeout)
}

func TestReadLineInterByteTimeout(t *testing.T) {
	s, port := newSerial([]byte("1;INFO;trunc"), nil)
	_, err := s.ReadLine()
	require.ErrorIs(t, err, telemetry.ErrReadTimeout)
	require.Equal(t, []time.Duration{
		s.cfg.ReadTimeout, s.cfg.InterByteTimeout,
	}, port.timeouts)
}

func TestReadLineEOF(t *testing.T) {
	s, _ := newSerial()
	_, err := s.ReadLine()
	require.ErrorIs(t, err, io.EOF)
}

func TestReadLineDataWithStreamEnd(t *testing.T) {
	s, port := newSerial()
	port.steps = []readStep{
		{data: []byte("1;SYSTEM;TEST_FINISH\r\n"), err: io.EOF},
	}
	line, err := s.ReadLine()
	require.NoError(t, err)
	require.Equal(t, []byte("1;SYSTEM;TEST_FINISH\r\n"), line)

	_, err = s.ReadLine()
	require.ErrorIs(t, err, io.EOF)
}

func TestClose(t *testing.T) {
	s, port := newSerial()
	require.NoError(t, s.Close())
	require.True(t, port.closed)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyUSB1")
	require.Equal(t, 115200, cfg.BaudRate)
	require.Equal(t, 10*time.Second, cfg.ReadTimeout)
	require.Equal(t, 10*time.Second, cfg.InterByteTimeout)
}
