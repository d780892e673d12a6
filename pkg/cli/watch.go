package cli

import (
	"context"
	"errors"
	"flag"
	"os/signal"
	"syscall"

	"github.com/alnovis/protounify/pkg/config"
	"github.com/alnovis/protounify/pkg/observability"
	"github.com/alnovis/protounify/pkg/orchestrator"
)

func newWatchCommand() *Command {
	cmd := &Command{
		Name:        "watch",
		Description: "Regenerate whenever schema sources change",
		Flags:       flag.NewFlagSet("watch", flag.ExitOnError),
	}

	configPath := cmd.Flags.String("config", "protounify.yaml", "Path to the configuration file")

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}

		cfg, err := config.Load(*configPath)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger := observability.NewLogger(cfg.ParsedLogLevel(), nil)
		o := orchestrator.New(cfg, logger)

		if err := o.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	return cmd
}
