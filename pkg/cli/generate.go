package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/alnovis/protounify/pkg/config"
	"github.com/alnovis/protounify/pkg/conflict"
	"github.com/alnovis/protounify/pkg/observability"
	"github.com/alnovis/protounify/pkg/orchestrator"
)

func newGenerateCommand() *Command {
	cmd := &Command{
		Name:        "generate",
		Description: "Merge configured schema versions and emit the unified model",
		Flags:       flag.NewFlagSet("generate", flag.ExitOnError),
	}

	configPath := cmd.Flags.String("config", "protounify.yaml", "Path to the configuration file")
	force := cmd.Flags.Bool("force", false, "Regenerate even when no source changed")

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}

		cfg, err := config.Load(*configPath)
		if err != nil {
			return err
		}

		logger := observability.NewLogger(cfg.ParsedLogLevel(), nil)
		o := orchestrator.New(cfg, logger)

		result, err := o.Run(context.Background(), *force)
		if err != nil {
			return err
		}

		if result.Skipped {
			fmt.Println("up to date, nothing to generate")
			return nil
		}
		fmt.Printf("generated %d file(s) in %s (%d conflict(s), %d breaking)\n",
			len(result.OutputFiles), result.Duration.Round(time.Millisecond),
			result.Conflicts.Total(), result.Conflicts.CountBySeverity(conflict.SeverityBreaking))
		return nil
	}

	return cmd
}
