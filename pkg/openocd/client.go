package openocd

import (
	"bytes"
	"context"
	"net"
	"strings"
	"time"

	"github.com/golang/glog"
)

// DefaultTCLAddr is where a locally launched daemon listens for TCL RPC.
const DefaultTCLAddr = "localhost:6666"

// cmdTerminator frames TCL RPC requests and responses.
const cmdTerminator = 0x1a

const dialTimeout = 5 * time.Second

// Client executes TCL commands on a running OpenOCD daemon. Commands are
// strictly sequential; Client is not safe for concurrent use.
type Client struct {
	conn    net.Conn
	pending []byte
}

// Dial connects to the daemon's TCL RPC service. The context bounds the
// dial together with the default dial timeout.
func Dial(ctx context.Context, addr string) (*Client, error) {
	d := net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

// Exec sends one TCL command and waits for its reply. The context deadline
// bounds the whole exchange; an expired deadline surfaces as a net timeout
// error.
func (c *Client) Exec(ctx context.Context, cmd string) (string, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Time{}
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return "", err
	}
	glog.V(2).Infof("openocd <- %q", cmd)
	if _, err := c.conn.Write(append([]byte(cmd), cmdTerminator)); err != nil {
		return "", err
	}
	buf := make([]byte, 256)
	for {
		if reply, ok := c.takeReply(); ok {
			glog.V(2).Infof("openocd -> %q", reply)
			return reply, nil
		}
		n, err := c.conn.Read(buf)
		if n > 0 {
			c.pending = append(c.pending, buf[:n]...)
			continue
		}
		if err != nil {
			return "", err
		}
	}
}

func (c *Client) takeReply() (string, bool) {
	i := bytes.IndexByte(c.pending, cmdTerminator)
	if i < 0 {
		return "", false
	}
	reply := strings.TrimSpace(string(c.pending[:i]))
	c.pending = append(c.pending[:0], c.pending[i+1:]...)
	return reply, true
}

// Close shuts down the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
