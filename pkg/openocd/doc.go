// Package openocd supervises an external OpenOCD daemon and drives it over
// its TCL RPC port.
package openocd

// OpenOCD owns the debug adapter for the duration of a run. The runner
// starts one daemon per run (Launcher), then talks to it through the TCL
// RPC service on port 6666 (Client). RPC framing is trivial: requests and
// responses are byte strings terminated by 0x1a.
//
// All platform-level behavior (power switching, bus routing, LEDs) lives in
// TCL procs defined by the adapter config file passed to the daemon; this
// package only transports commands.
