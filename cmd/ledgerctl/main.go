// Command ledgerctl inspects and maintains a CU ledger directly through its
// store, without going through the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/osse101/Credence_Go/internal/bootstrap"
	"github.com/osse101/Credence_Go/internal/config"
	"github.com/osse101/Credence_Go/internal/logger"
)

const (
	timeFormat     = "2006-01-02 15:04"
	statusOK       = "ok"
	statusMismatch = "MISMATCH"
)

func main() {
	registry := defaultRegistry()
	if len(os.Args) < 2 {
		registry.PrintHelp(os.Stderr)
		os.Exit(2)
	}

	cmd, ok := registry.Get(os.Args[1])
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		registry.PrintHelp(os.Stderr)
		os.Exit(2)
	}

	if err := run(cmd, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		var usage errUsage
		if errors.As(err, &usage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(cmd Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// Keep stdout for command output
	cfg.LogDir = ""
	if cfg.LogLevel == "info" {
		cfg.LogLevel = "warn"
	}
	logger.InitLoggerWithWriter(logger.NewConfig(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName, cfg.Version, cfg.Environment, false), os.Stderr)

	ctx := context.Background()
	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	env := &Env{Services: bootstrap.NewServices(cfg, store, nil), Out: os.Stdout}
	return cmd.Run(ctx, env, args)
}
