package openocd

import (
	"bytes"
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeDaemon answers TCL RPC requests on a local listener.
type fakeDaemon struct {
	ln       net.Listener
	received chan string
	reply    func(cmd string) string
}

func newFakeDaemon(t *testing.T, reply func(cmd string) string) *fakeDaemon {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	d := &fakeDaemon{ln: ln, received: make(chan string, 16), reply: reply}
	go d.serve()
	t.Cleanup(func() { ln.Close() })
	return d
}

func (d *fakeDaemon) serve() {
	conn, err := d.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()
	var pending []byte
	buf := make([]byte, 64)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
			for {
				i := bytes.IndexByte(pending, cmdTerminator)
				if i < 0 {
					break
				}
				cmd := string(pending[:i])
				pending = pending[i+1:]
				d.received <- cmd
				if d.reply != nil {
					conn.Write(append([]byte(d.reply(cmd)), cmdTerminator))
				}
			}
		}
		if err != nil {
			return
		}
	}
}

func TestClientExec(t *testing.T) {
	d := newFakeDaemon(t, func(cmd string) string {
		if cmd == "ts11_spi_sense" {
			return "0\n"
		}
		return ""
	})
	c, err := Dial(context.Background(), d.ln.Addr().String())
	require.NoError(t, err)
	defer c.Close()

	reply, err := c.Exec(context.Background(), "ts11_spi_sense")
	require.NoError(t, err)
	require.Equal(t, "0", reply)
	require.Equal(t, "ts11_spi_sense", <-d.received)

	// Empty replies are fine, chained commands keep working.
	reply, err = c.Exec(context.Background(), "ts11_power 1")
	require.NoError(t, err)
	require.Equal(t, "", reply)
}

func TestClientExecDeadline(t *testing.T) {
	// A daemon that swallows commands and never answers.
	d := newFakeDaemon(t, nil)
	c, err := Dial(context.Background(), d.ln.Addr().String())
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Exec(ctx, "halt")
	require.Error(t, err)
	require.True(t, os.IsTimeout(err))
}

func TestDialRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = Dial(context.Background(), addr)
	require.Error(t, err)
}

func TestDialHonorsContext(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Dial(ctx, ln.Addr().String())
	require.ErrorIs(t, err, context.Canceled)
}
