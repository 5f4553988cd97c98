package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/firmworks/hiltest.go/pkg/openocd"
)

// ts11 drives an STM32 target seated on a TS11 carrier board through
// OpenOCD. The carrier's adapter config defines the ts11_* TCL procs used
// here: power switching, SPI bus routing and the tri-color LED all hang off
// the adapter's spare FTDI signals.
type ts11 struct {
	addr      string
	targetCfg string
	client    *openocd.Client
}

var ts11Targets = map[string]string{
	"stm32-u5": "target/stm32u5x.cfg",
	"stm32-l4": "target/stm32l4x.cfg",
}

func init() {
	for id := range ts11Targets {
		Register(id, newTS11)
	}
}

func newTS11(id string, opts Options) (Control, error) {
	addr := opts.TCLAddr
	if addr == "" {
		addr = openocd.DefaultTCLAddr
	}
	return &ts11{addr: addr, targetCfg: ts11Targets[id]}, nil
}

// ProbeArgs implements ProbeConfigurer.
func (p *ts11) ProbeArgs() []string {
	return []string{"-f", p.targetCfg}
}

// Connect implements Control.
func (p *ts11) Connect(ctx context.Context) error {
	c, err := openocd.Dial(ctx, p.addr)
	if err != nil {
		return err
	}
	p.client = c
	return nil
}

// Disconnect implements Control.
func (p *ts11) Disconnect() {
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
}

func (p *ts11) exec(ctx context.Context, cmd string) (string, error) {
	if p.client == nil {
		return "", errors.New("not connected")
	}
	return p.client.Exec(ctx, cmd)
}

// Initialize implements Control.
func (p *ts11) Initialize(ctx context.Context) error {
	_, err := p.exec(ctx, "init")
	return err
}

// IsBusFree implements Control. ts11_spi_sense reads the bus-request line
// shared by all carriers on the fixture: 0 means no board drives the bus.
func (p *ts11) IsBusFree(ctx context.Context) (bool, error) {
	out, err := p.exec(ctx, "ts11_spi_sense")
	if err != nil {
		return false, err
	}
	return out == "0", nil
}

// SetBusEnabled implements Control.
func (p *ts11) SetBusEnabled(ctx context.Context, on bool) error {
	_, err := p.exec(ctx, fmt.Sprintf("ts11_spi_en %d", onOff(on)))
	return err
}

// SetPower implements Control.
func (p *ts11) SetPower(ctx context.Context, on bool) error {
	_, err := p.exec(ctx, fmt.Sprintf("ts11_power %d", onOff(on)))
	return err
}

// SetIndicator implements Control.
func (p *ts11) SetIndicator(ctx context.Context, color LEDColor) error {
	_, err := p.exec(ctx, "ts11_led "+string(color))
	return err
}

// BlinkIndicator implements Control.
func (p *ts11) BlinkIndicator(ctx context.Context, color LEDColor) error {
	_, err := p.exec(ctx, "ts11_led_blink "+string(color))
	return err
}

// LoadImage implements Control.
func (p *ts11) LoadImage(ctx context.Context, path string) error {
	for _, cmd := range []string{
		"reset halt",
		"load_image " + path,
		"resume",
	} {
		if _, err := p.exec(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}

// Reset implements Control.
func (p *ts11) Reset(ctx context.Context) error {
	_, err := p.exec(ctx, "reset run")
	return err
}

func onOff(on bool) int {
	if on {
		return 1
	}
	return 0
}
