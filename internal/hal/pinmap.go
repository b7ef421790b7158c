package hal

// PinMap is the set of BCM GPIO line numbers TAPPER drives directly. The SPI
// chip-select for the PN532 is handled by internal/pn532spi through
// periph.io's SPI registry, not through this map.
type PinMap struct {
	Buzzer int
	Tamper int
	LEDRed int
	LEDGreen int
	LEDBlue  int
	Relay    int
}

// DefaultPinMap is the current-hardware pin assignment.
func DefaultPinMap() PinMap {
	return PinMap{
		Buzzer:   21,
		Tamper:   6,
		LEDRed:   26,
		LEDGreen: 13,
		LEDBlue:  19,
		Relay:    14,
	}
}

// LegacyPinMap is the older-hardware pin assignment, selected by the
// `legacy: true` configuration flag.
func LegacyPinMap() PinMap {
	return PinMap{
		Buzzer:   18,
		Tamper:   20,
		LEDRed:   17,
		LEDGreen: 16,
		LEDBlue:  15,
		Relay:    14,
	}
}
