// Package netmgr is a thin placeholder for Wi-Fi provisioning, which spec
// explicitly delegates to the host's network-management daemon and excludes
// from the core. No D-Bus client is wired here — Configure only logs the
// requested settings so the appliance's config schema has a stable home for
// them if a future build wires it to NetworkManager.
package netmgr

import (
	"github.com/hardwario/tapper/internal/config"
	"github.com/hardwario/tapper/internal/logger"
	"go.uber.org/zap"
)

// Configure logs the Wi-Fi settings found in configuration. It performs no
// network changes.
func Configure(cfg config.WiFi) {
	if cfg.Network == "" {
		return
	}
	logger.WithComponent("netmgr").Info(
		"wifi provisioning requested, deferring to host network manager",
		zap.String("network", cfg.Network),
		zap.String("mode", cfg.Mode),
		zap.String("address", cfg.Address),
		zap.String("gateway", cfg.Gateway),
		zap.Strings("nameservers", cfg.Nameservers),
	)
}
