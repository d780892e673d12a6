package cli

import (
	"context"
	"flag"
	"fmt"
	"path"

	"github.com/alnovis/protounify/pkg/analyzer"
	"github.com/alnovis/protounify/pkg/config"
	"github.com/alnovis/protounify/pkg/diff"
	"github.com/alnovis/protounify/pkg/observability"
	"github.com/alnovis/protounify/pkg/schema"
)

func newDiffCommand() *Command {
	cmd := &Command{
		Name:        "diff",
		Description: "Compare two configured schema versions structurally",
		Flags:       flag.NewFlagSet("diff", flag.ExitOnError),
	}

	configPath := cmd.Flags.String("config", "protounify.yaml", "Path to the configuration file")
	oldID := cmd.Flags.String("old", "", "Version ID to diff from")
	newID := cmd.Flags.String("new", "", "Version ID to diff to")
	format := cmd.Flags.String("format", "text", "Output format: text, markdown or json")

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if *oldID == "" || *newID == "" {
			return fmt.Errorf("both -old and -new version IDs are required")
		}

		cfg, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		logger := observability.NewLogger(cfg.ParsedLogLevel(), nil)
		a := analyzer.New(logger)

		ctx := context.Background()
		oldSchema, err := analyzeConfigured(ctx, a, cfg, *oldID)
		if err != nil {
			return err
		}
		newSchema, err := analyzeConfigured(ctx, a, cfg, *newID)
		if err != nil {
			return err
		}

		result := diff.New().Compare(oldSchema, newSchema)
		rendered, err := diff.Format(result, *format)
		if err != nil {
			return err
		}
		fmt.Print(rendered)

		if result.HasBreaking() {
			return fmt.Errorf("%s -> %s contains breaking changes", *oldID, *newID)
		}
		return nil
	}

	return cmd
}

// analyzeConfigured resolves a version ID against the configuration and
// analyzes its source tree.
func analyzeConfigured(ctx context.Context, a *analyzer.Analyzer, cfg *config.Config, id string) (*schema.VersionSchema, error) {
	for _, vc := range cfg.Versions {
		if vc.ID == id {
			return a.AnalyzeVersion(ctx, schema.VersionID(id), path.Join(cfg.SchemaRoot, vc.Path))
		}
	}
	return nil, fmt.Errorf("version %q is not configured", id)
}
