package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hardwario/tapper/internal/config"
	"github.com/hardwario/tapper/internal/device"
	"github.com/hardwario/tapper/internal/logger"
	"github.com/hardwario/tapper/internal/netmgr"
	"github.com/hardwario/tapper/internal/supervisor"
	"go.uber.org/zap"
)

// Version is set at build time via -ldflags.
var Version = "0.1.0"

func main() {
	configPath := flag.String("config", "", "path to tapper.yaml (default: search /etc/tapper, ., ~/.tapper)")
	spiBus := flag.String("spi", "SPI0.0", "periph.io SPI port name for the PN532 front-end")
	debug := flag.Bool("debug", false, "echo debug-level logs to stderr instead of info-level logs to stdout")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("tapperd " + Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tapperd: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Debug = *debug
	if cfg.Logger.LogDir != "" {
		logCfg.LogDir = cfg.Logger.LogDir
	}
	if cfg.Logger.MaxSizeMB > 0 {
		logCfg.MaxSizeMB = cfg.Logger.MaxSizeMB
	}
	if cfg.Logger.MaxBackups > 0 {
		logCfg.MaxBackups = cfg.Logger.MaxBackups
	}
	if cfg.Logger.MaxAgeDays > 0 {
		logCfg.MaxAgeDays = cfg.Logger.MaxAgeDays
	}
	logCfg.Compress = cfg.Logger.Compress
	if err := logger.Init(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "tapperd: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("tapperd starting", zap.String("version", Version))

	netmgr.Configure(cfg.WiFi)

	gp, err := initHAL()
	if err != nil {
		logger.Fatal("failed to initialize GPIO", zap.Error(err))
	}

	dev, err := device.New(cfg, gp, *spiBus)
	if err != nil {
		if code, ok := device.ExitCode(err); ok {
			logger.Error("device construction failed fatally", zap.Error(err), zap.Int("exit_code", code))
			os.Exit(code)
		}
		logger.Fatal("failed to construct device", zap.Error(err))
	}

	logger.Info("device ready", zap.String("id", dev.ID()))

	os.Exit(supervisor.Run(dev))
}
