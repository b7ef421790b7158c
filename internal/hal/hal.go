// Package hal is TAPPER's hardware abstraction layer for the digital
// actuators and inputs the device supervisor drives directly: the buzzer,
// the tamper switch, the RGB LED channels and the relay. SPI access to the
// PN532 front-end goes through internal/pn532spi instead, since it needs
// periph.io's SPI port rather than a single digital line.
package hal

import "fmt"

// PinMode is the electrical direction of a GPIO line.
type PinMode int

const (
	Input PinMode = iota
	Output
)

// PullMode is the input pull resistor configuration.
type PullMode int

const (
	PullNone PullMode = iota
	PullUp
	PullDown
)

// GPIOProvider is the digital I/O surface TAPPER needs from a board.
type GPIOProvider interface {
	// SetMode configures a pin as input or output.
	SetMode(pin int, mode PinMode) error
	// SetPull configures the input pull resistor. Only meaningful for Input pins.
	SetPull(pin int, pull PullMode) error
	// DigitalRead reads the current logic level of an input pin.
	DigitalRead(pin int) (bool, error)
	// DigitalWrite drives an output pin high or low.
	DigitalWrite(pin int, value bool) error
	// Close releases all pins held by the provider.
	Close() error
}

// ErrPinNotConfigured is returned when a pin is accessed before it is known to
// the backend. RPIO returns it for any access before SetMode; Mock registers a
// pin on any SetMode, SetPull, DigitalWrite or SetInput call and returns it
// only from DigitalRead of a pin none of those has touched.
func ErrPinNotConfigured(pin int) error {
	return fmt.Errorf("hal: pin %d not configured", pin)
}
