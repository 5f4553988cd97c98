package platform

import "context"

// LEDColor is a color of the carrier board's indicator LED.
type LEDColor string

// Indicator colors: white while a test is running, green/red for the
// verdict.
const (
	LEDWhite LEDColor = "white"
	LEDRed   LEDColor = "red"
	LEDGreen LEDColor = "green"
)

// Control is everything a test run needs from a target carrier: debug-probe
// attach, power and shared-bus switching, the indicator LED, firmware load
// and reset. Operations are issued strictly one at a time; implementations
// need not be safe for concurrent use.
type Control interface {
	// Connect attaches to the debug probe.
	Connect(ctx context.Context) error
	// Disconnect detaches from the probe. Safe to call when not connected.
	Disconnect()
	// Initialize prepares platform state after connecting.
	Initialize(ctx context.Context) error
	// IsBusFree reports whether all other boards released the shared SPI
	// bus.
	IsBusFree(ctx context.Context) (bool, error)
	// SetBusEnabled routes or releases the shared SPI bus for this board.
	SetBusEnabled(ctx context.Context, on bool) error
	// SetPower switches target power.
	SetPower(ctx context.Context, on bool) error
	// SetIndicator sets the indicator LED to a steady color.
	SetIndicator(ctx context.Context, color LEDColor) error
	// BlinkIndicator blinks the indicator LED once in the given color.
	BlinkIndicator(ctx context.Context, color LEDColor) error
	// LoadImage programs the firmware image at path onto the halted
	// target. A stalled probe exchange surfaces as a timeout error.
	LoadImage(ctx context.Context, path string) error
	// Reset asserts a hardware reset and leaves the target running.
	Reset(ctx context.Context) error
}

// ProbeConfigurer is implemented by platforms that need extra arguments on
// the probe daemon's command line (target config files, transport setup).
type ProbeConfigurer interface {
	ProbeArgs() []string
}
