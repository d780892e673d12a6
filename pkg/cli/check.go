package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/alnovis/protounify/pkg/analyzer"
	"github.com/alnovis/protounify/pkg/config"
	"github.com/alnovis/protounify/pkg/conflict"
	"github.com/alnovis/protounify/pkg/merger"
	"github.com/alnovis/protounify/pkg/observability"
)

func newCheckCommand() *Command {
	cmd := &Command{
		Name:        "check",
		Description: "Classify cross-version conflicts without writing output",
		Flags:       flag.NewFlagSet("check", flag.ExitOnError),
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
		logger := observability.NewLogger(cfg.ParsedLogLevel(), nil)

		ctx := context.Background()
		schemas, err := analyzer.New(logger).AnalyzeAll(ctx, cfg.SchemaRoot, cfg.Versions)
		if err != nil {
			return err
		}
		merged, err := merger.New(logger).Merge(schemas)
		if err != nil {
			return err
		}
		report := conflict.NewClassifier(logger).ClassifySchema(merged)

		for _, entry := range report.Entries {
			fmt.Printf("%-10s %s.%s (%d): %s\n",
				entry.Severity, entry.Message, entry.Field, entry.Number, entry.KindName)
		}
		fmt.Printf("%d conflict(s): %d breaking, %d warning(s), %d info\n",
			report.Total(),
			report.CountBySeverity(conflict.SeverityBreaking),
			report.CountBySeverity(conflict.SeverityWarning),
			report.CountBySeverity(conflict.SeverityInfo))

		if report.HasBreaking() {
			return fmt.Errorf("schema versions have breaking conflicts")
		}
		return nil
	}

	return cmd
}
