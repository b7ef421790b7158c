//go:build !linux
// +build !linux

package main

import (
	"github.com/hardwario/tapper/internal/hal"
	"github.com/hardwario/tapper/internal/logger"
)

// initHAL returns a Mock GPIO backend on non-Linux platforms, for running
// the supervisor's concurrency and protocol logic on a development machine.
func initHAL() (hal.GPIOProvider, error) {
	logger.Info("non-Linux platform detected, using mock GPIO backend")
	return hal.NewMock(), nil
}
