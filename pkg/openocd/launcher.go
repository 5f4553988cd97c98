package openocd

import (
	"bufio"
	"errors"
	"io"
	"os/exec"
	"syscall"
	"time"

	"github.com/golang/glog"
)

// settleDelay gives the daemon time to probe the adapter before the TCL
// port is used.
const settleDelay = 2 * time.Second

// Launcher supervises one OpenOCD daemon for the duration of a run.
type Launcher struct {
	// Binary is the executable to launch, "openocd" when empty.
	Binary string
	// Args is the full daemon command line (config files, adapter setup).
	Args []string

	cmd *exec.Cmd
}

// Start launches the daemon, waits for it to settle and verifies it is
// still alive. Daemon output is forwarded to the debug log.
func (l *Launcher) Start() error {
	bin := l.Binary
	if bin == "" {
		bin = "openocd"
	}
	cmd := exec.Command(bin, l.Args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}
	glog.V(1).Infof("launching %s %v", bin, l.Args)
	if err := cmd.Start(); err != nil {
		return err
	}
	l.cmd = cmd
	go forwardOutput(stdout)
	go forwardOutput(stderr)

	time.Sleep(settleDelay)
	if !l.Running() {
		l.cmd.Wait()
		l.cmd = nil
		return errors.New("openocd exited during startup, rerun with -v=1 for its output")
	}
	return nil
}

// Running reports whether the daemon process is still alive.
func (l *Launcher) Running() bool {
	if l.cmd == nil || l.cmd.Process == nil {
		return false
	}
	return l.cmd.Process.Signal(syscall.Signal(0)) == nil
}

// Stop terminates the daemon. Safe to call when not started.
func (l *Launcher) Stop() {
	if l.cmd == nil {
		return
	}
	if l.cmd.Process != nil {
		l.cmd.Process.Kill()
	}
	l.cmd.Wait()
	l.cmd = nil
}

func forwardOutput(r io.Reader) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		glog.V(1).Infof("openocd: %s", sc.Text())
	}
}
