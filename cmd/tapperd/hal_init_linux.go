//go:build linux
// +build linux

package main

import (
	"github.com/hardwario/tapper/internal/hal"
	"github.com/hardwario/tapper/internal/logger"
)

// initHAL opens the Raspberry Pi's real GPIO memory range. Falling back to
// a Mock would mask a wiring fault on the one platform this appliance
// actually ships on, so a failure here is fatal rather than silently
// downgraded.
func initHAL() (hal.GPIOProvider, error) {
	gp, err := hal.NewRPIO()
	if err != nil {
		return nil, err
	}
	logger.Info("GPIO initialized via go-rpio")
	return gp, nil
}
