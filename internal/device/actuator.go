package device

import "time"

// actuator is the minimal capability patterns are run against: turn a
// physical output on, turn it off. Both the buzzer and the LED (driven as a
// single unit for pattern purposes) satisfy this.
type actuator interface {
	On() error
	Off() error
}

// buzzerActuator drives the buzzer GPIO line.
type buzzerActuator struct{ d *Device }

func (a buzzerActuator) On() error  { return a.d.hal.DigitalWrite(a.d.pins.Buzzer, true) }
func (a buzzerActuator) Off() error { return a.d.hal.DigitalWrite(a.d.pins.Buzzer, false) }

// ledActuator drives the LED at a fixed color for pattern purposes: On sets
// the pattern's color, Off turns the LED off.
type ledActuator struct {
	d     *Device
	color Color
}

func (a ledActuator) On() error  { return a.d.setLEDLocked(a.color) }
func (a ledActuator) Off() error { return a.d.setLEDLocked(ColorOff) }

// runPattern drives on/off the waveforms named in spec's pattern table.
// Callers must already hold the guard for the actuator's resource.
func runPattern(name string, a actuator) error {
	switch name {
	case "p1":
		return wave(a, 1, 500*time.Millisecond, 0)
	case "p2":
		return wave(a, 2, 500*time.Millisecond, 250*time.Millisecond)
	case "p3":
		return wave(a, 3, 500*time.Millisecond, 250*time.Millisecond)
	case "p4":
		return wave(a, 4, 125*time.Millisecond, 125*time.Millisecond)
	default:
		// Unknown pattern name: no-op, still a success per spec's boundary case.
		return nil
	}
}

// wave runs (on; sleep onDur; off; sleep offGap) cycles times, matching the
// pattern table in spec's named-pattern list literally — including the
// trailing gap after the final cycle.
func wave(a actuator, cycles int, onDur, offGap time.Duration) error {
	for i := 0; i < cycles; i++ {
		if err := a.On(); err != nil {
			return err
		}
		time.Sleep(onDur)
		if err := a.Off(); err != nil {
			return err
		}
		if offGap > 0 {
			time.Sleep(offGap)
		}
	}
	return nil
}
