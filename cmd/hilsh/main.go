// hilsh is an interactive shell for manual board bring-up: poke power, bus
// routing, the LED and firmware load on a platform without running a test.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/firmworks/hiltest.go/pkg/openocd"
	"github.com/firmworks/hiltest.go/pkg/platform"
)

var (
	platformID = "stm32-u5"
	tclAddr    = openocd.DefaultTCLAddr
)

func init() {
	flag.StringVar(&platformID, "platform", platformID, "Platform id.")
	flag.StringVar(&tclAddr, "tcl", tclAddr, "OpenOCD TCL RPC address.")
}

func main() {
	flag.Parse()

	ctl, err := platform.New(platformID, platform.Options{TCLAddr: tclAddr})
	if err != nil {
		glog.Exitf("%v", err)
	}
	defer ctl.Disconnect()

	shell := ishell.New()
	shell.Println("hiltest shell, platform " + platformID)
	addCommands(shell, ctl)
	shell.Run()
	glog.Flush()
}

func addCommands(shell *ishell.Shell, ctl platform.Control) {
	ctx := context.Background()

	report := func(c *ishell.Context, err error) {
		if err != nil {
			c.Println("error:", err)
		}
	}
	onArg := func(c *ishell.Context) bool {
		return len(c.Args) > 0 && c.Args[0] == "on"
	}

	shell.AddCmd(&ishell.Cmd{
		Name: "connect",
		Help: "attach to the debug probe",
		Func: func(c *ishell.Context) {
			if err := ctl.Connect(ctx); err != nil {
				report(c, err)
				return
			}
			report(c, ctl.Initialize(ctx))
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "disconnect",
		Help: "detach from the debug probe",
		Func: func(c *ishell.Context) {
			ctl.Disconnect()
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "power",
		Help: "power on|off",
		Func: func(c *ishell.Context) {
			report(c, ctl.SetPower(ctx, onArg(c)))
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "spi",
		Help: "spi on|off|sense",
		Func: func(c *ishell.Context) {
			if len(c.Args) > 0 && c.Args[0] == "sense" {
				free, err := ctl.IsBusFree(ctx)
				if err != nil {
					report(c, err)
					return
				}
				if free {
					c.Println("bus free")
				} else {
					c.Println("bus occupied")
				}
				return
			}
			report(c, ctl.SetBusEnabled(ctx, onArg(c)))
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "led",
		Help: "led white|red|green",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Println("usage: led white|red|green")
				return
			}
			report(c, ctl.SetIndicator(ctx, platform.LEDColor(c.Args[0])))
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "load",
		Help: "load <elf>",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Println("usage: load <elf>")
				return
			}
			if _, err := os.Stat(c.Args[0]); err != nil {
				report(c, err)
				return
			}
			report(c, ctl.LoadImage(ctx, c.Args[0]))
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "reset",
		Help: "hardware reset, leave the target running",
		Func: func(c *ishell.Context) {
			report(c, ctl.Reset(ctx))
		},
	})
}
