package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"appreg/internal/config"
	"appreg/internal/logging"
	"appreg/internal/menu"
	"appreg/internal/ops"
	"appreg/internal/prompt"
	"appreg/internal/ui"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// Version info (set by ldflags)
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintln(os.Stderr, "appreg - manage AppImage launcher entries")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Usage: appreg [options]")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Options:")
		pflag.PrintDefaults()
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run without arguments to start the interactive menu.")
	}

	configFlag := pflag.StringP("config", "c", "", "Path to the config file (default ~/.config/appreg/config.yaml)")
	debugFlag := pflag.BoolP("debug", "d", false, "Enable debug logging on stderr")
	versionFlag := pflag.BoolP("version", "v", false, "Show version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}
	if *versionFlag {
		fmt.Printf("appreg %s (built %s)\n", version, buildTime)
		return
	}

	os.Exit(run(*configFlag, *debugFlag))
}

func run(configPath string, debug bool) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if debug {
		cfg.Debug = true
	}

	logCfg := logging.DefaultConfig()
	if cfg.Debug {
		logCfg = logging.DebugConfig()
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	if err := cfg.EnsureDirectories(); err != nil {
		logger.Error("cannot create directories", zap.Error(err))
		return 1
	}

	p := prompt.New(os.Stdin, os.Stdout)
	manager := ops.New(cfg, p, os.Stdout, logger)

	scanned, err := manager.Initialize()
	if err != nil {
		logger.Error("cannot initialize registry", zap.String("path", cfg.RegistryPath), zap.Error(err))
		return 1
	}
	if scanned {
		fmt.Fprintln(os.Stdout, ui.RenderNotification(ui.NotifyInfo,
			fmt.Sprintf("Created registry from %s", cfg.BundleDir)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := menu.New(manager, p, os.Stdout, logger, version).Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		logger.Error("menu stopped", zap.Error(err))
		return 1
	}
	return 0
}
