// Package supervisor starts every activity, installs the signal handler,
// and runs cleanup on shutdown, per spec §4.7.
package supervisor

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/hardwario/tapper/internal/activities"
	"github.com/hardwario/tapper/internal/device"
	"github.com/hardwario/tapper/internal/logger"
	"github.com/hardwario/tapper/internal/mqttlink"
	"go.uber.org/zap"
)

// Run starts the Tag Poller, Tamper Monitor, Heartbeat Reporter, Request
// Processor and MQTT publisher as concurrent activities, blocks until
// SIGINT/SIGTERM, then joins every activity and runs cleanup. Returns 0 on
// clean shutdown.
func Run(dev *device.Device) int {
	log := logger.WithComponent("supervisor")
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup
	start := func(fn func(context.Context, *device.Device)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(ctx, dev)
		}()
	}

	start(activities.TagPoller)
	start(activities.TamperMonitor)
	start(activities.HeartbeatReporter)
	start(activities.RequestProcessor)
	start(mqttlink.Publisher)

	sig := <-sigCh
	log.Info("shutdown signal received", zap.String("signal", sig.String()))
	cancel()

	wg.Wait()
	dev.Shutdown()

	log.Info("clean shutdown complete")
	return 0
}
