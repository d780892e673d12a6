package orchestrator

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alnovis/protounify/pkg/analyzer"
	"github.com/alnovis/protounify/pkg/config"
	"github.com/alnovis/protounify/pkg/conflict"
	"github.com/alnovis/protounify/pkg/dependencies"
	"github.com/alnovis/protounify/pkg/incremental"
	"github.com/alnovis/protounify/pkg/merger"
	"github.com/alnovis/protounify/pkg/observability"
	"github.com/alnovis/protounify/pkg/schema"
)

// ToolVersion participates in cache invalidation: bumping it forces every
// cache to cold-start on upgrade.
const ToolVersion = "0.3.0"

// Result describes one pipeline run.
type Result struct {
	RunID       string
	Skipped     bool
	ColdStart   bool
	Changes     incremental.ChangeSet
	Affected    []string
	Merged      *schema.MergedSchema
	Conflicts   *conflict.Report
	OutputFiles []string
	Duration    time.Duration
}

// Orchestrator wires the pipeline components together.
type Orchestrator struct {
	cfg        *config.Config
	logger     *observability.Logger
	analyzer   *analyzer.Analyzer
	merger     *merger.Merger
	classifier *conflict.Classifier
	prints     *incremental.Fingerprinter
	state      *incremental.Manager
}

// New creates an Orchestrator for the given configuration.
func New(cfg *config.Config, logger *observability.Logger) *Orchestrator {
	if logger == nil {
		logger = observability.NewLogger(cfg.ParsedLogLevel(), nil)
	}
	return &Orchestrator{
		cfg:        cfg,
		logger:     logger,
		analyzer:   analyzer.New(logger),
		merger:     merger.New(logger),
		classifier: conflict.NewClassifier(logger),
		prints:     incremental.NewFingerprinter(),
		state:      incremental.NewManager(cfg.CacheDir, logger),
	}
}

// Run executes one pipeline pass. When force is false the incremental gate
// may skip the run entirely; force bypasses the gate but still records a
// fresh snapshot.
func (o *Orchestrator) Run(ctx context.Context, force bool) (*Result, error) {
	started := time.Now()
	result := &Result{RunID: uuid.NewString()}
	ctx = observability.WithRunID(ctx, result.RunID)
	logger := o.logger.WithField("run_id", result.RunID)

	configHash := o.cfg.Hash()
	state := o.state.Load()
	result.ColdStart = state.ShouldInvalidate(ToolVersion, configHash)
	if result.ColdStart {
		state = incremental.Empty()
	}

	files, err := o.listSourceFiles()
	if err != nil {
		return nil, err
	}

	fingerprints, err := o.prints.FingerprintAll(ctx, o.cfg.SchemaRoot, files)
	if err != nil {
		return nil, fmt.Errorf("fingerprinting sources: %w", err)
	}

	graph, err := o.buildImportGraph()
	if err != nil {
		return nil, fmt.Errorf("building import graph: %w", err)
	}

	detector := incremental.NewDetector(state)
	if !force && !result.ColdStart {
		if !detector.MightHaveChanges(fingerprints) {
			logger.Info("no changes detected, skipping generation")
			result.Skipped = true
			result.Duration = time.Since(started)
			return result, nil
		}
		result.Changes = detector.AnalyzeChanges(fingerprints)
		if !result.Changes.HasChanges() {
			logger.Info("fingerprints unchanged, skipping generation")
			result.Skipped = true
			result.Duration = time.Since(started)
			return result, nil
		}
		result.Affected = detector.ExpandChanges(result.Changes, graph)
		logger.WithFields(map[string]interface{}{
			"added":    len(result.Changes.Added),
			"modified": len(result.Changes.Modified),
			"deleted":  len(result.Changes.Deleted),
			"affected": len(result.Affected),
		}).Info("changes detected, regenerating")
	}

	schemas, err := o.analyzer.AnalyzeAll(ctx, o.cfg.SchemaRoot, o.cfg.Versions)
	if err != nil {
		return nil, err
	}

	merged, err := o.merger.Merge(schemas)
	if err != nil {
		return nil, err
	}
	result.Merged = merged
	result.Conflicts = o.classifier.ClassifySchema(merged)

	generated, outputs, err := o.emit(merged, result.Conflicts)
	if err != nil {
		return nil, fmt.Errorf("emitting output: %w", err)
	}
	result.OutputFiles = outputs

	snapshot := incremental.NewState(ToolVersion, configHash, fingerprints, graph.Edges(), generated, time.Now())
	if err := o.state.Save(snapshot); err != nil {
		return nil, fmt.Errorf("persisting state: %w", err)
	}

	result.Duration = time.Since(started)
	logger.WithFields(map[string]interface{}{
		"messages":  len(merged.Messages),
		"conflicts": result.Conflicts.Total(),
		"duration":  result.Duration.String(),
	}).Info("generation complete")
	return result, nil
}

// listSourceFiles collects every version's .proto files as paths relative to
// the schema root, applying the include/exclude filters.
func (o *Orchestrator) listSourceFiles() ([]string, error) {
	var files []string
	for _, vc := range o.cfg.Versions {
		versionFiles, err := analyzer.ListProtoFiles(path.Join(o.cfg.SchemaRoot, vc.Path))
		if err != nil {
			return nil, fmt.Errorf("version %s: %w", vc.ID, err)
		}
		for _, f := range versionFiles {
			rel := path.Join(vc.Path, f)
			if o.included(rel) {
				files = append(files, rel)
			}
		}
	}
	return files, nil
}

// buildImportGraph parses every version's imports into one graph. Imports
// resolve against the version's own source root, so both file keys and edge
// targets carry the version path prefix; the keys line up with the
// fingerprint map.
func (o *Orchestrator) buildImportGraph() (*dependencies.Graph, error) {
	builder := dependencies.NewBuilder(o.cfg.IgnoreImports)
	graph := dependencies.NewGraph()

	for _, vc := range o.cfg.Versions {
		versionRoot := path.Join(o.cfg.SchemaRoot, vc.Path)
		versionFiles, err := analyzer.ListProtoFiles(versionRoot)
		if err != nil {
			return nil, fmt.Errorf("version %s: %w", vc.ID, err)
		}
		sub, err := builder.Build(versionRoot, versionFiles)
		if err != nil {
			return nil, fmt.Errorf("version %s: %w", vc.ID, err)
		}
		for file, imports := range sub.Edges() {
			prefixed := make([]string, len(imports))
			for i, imp := range imports {
				prefixed[i] = path.Join(vc.Path, imp)
			}
			graph.AddFile(path.Join(vc.Path, file), prefixed)
		}
	}
	return graph, nil
}

func (o *Orchestrator) included(file string) bool {
	for _, exc := range o.cfg.Exclude {
		if strings.HasPrefix(file, exc) {
			return false
		}
	}
	if len(o.cfg.Include) == 0 {
		return true
	}
	for _, inc := range o.cfg.Include {
		if strings.HasPrefix(file, inc) {
			return true
		}
	}
	return false
}
