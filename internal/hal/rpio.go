//go:build linux
// +build linux

package hal

import (
	"fmt"
	"sync"

	"github.com/stianeikeland/go-rpio/v4"
)

// RPIO implements GPIOProvider on top of github.com/stianeikeland/go-rpio,
// the same backend EdgeFlow uses for its Raspberry Pi HAL.
type RPIO struct {
	mu   sync.Mutex
	pins map[int]rpio.Pin
}

// NewRPIO opens the GPIO memory range and returns a ready provider.
func NewRPIO() (*RPIO, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("hal: failed to open GPIO: %w", err)
	}
	return &RPIO{pins: make(map[int]rpio.Pin)}, nil
}

func (r *RPIO) SetMode(pin int, mode PinMode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := rpio.Pin(pin)
	switch mode {
	case Input:
		p.Input()
	case Output:
		p.Output()
	default:
		return fmt.Errorf("hal: unsupported pin mode %v", mode)
	}
	r.pins[pin] = p
	return nil
}

func (r *RPIO) SetPull(pin int, pull PullMode) error {
	r.mu.Lock()
	p, ok := r.pins[pin]
	r.mu.Unlock()
	if !ok {
		return ErrPinNotConfigured(pin)
	}

	switch pull {
	case PullNone:
		p.PullOff()
	case PullUp:
		p.PullUp()
	case PullDown:
		p.PullDown()
	}
	return nil
}

func (r *RPIO) DigitalRead(pin int) (bool, error) {
	r.mu.Lock()
	p, ok := r.pins[pin]
	r.mu.Unlock()
	if !ok {
		return false, ErrPinNotConfigured(pin)
	}
	return p.Read() == rpio.High, nil
}

func (r *RPIO) DigitalWrite(pin int, value bool) error {
	r.mu.Lock()
	p, ok := r.pins[pin]
	r.mu.Unlock()
	if !ok {
		return ErrPinNotConfigured(pin)
	}
	if value {
		p.High()
	} else {
		p.Low()
	}
	return nil
}

func (r *RPIO) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pins = make(map[int]rpio.Pin)
	return rpio.Close()
}
