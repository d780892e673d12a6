package analyzer

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bufbuild/protocompile"
	"golang.org/x/sync/errgroup"

	"github.com/alnovis/protounify/pkg/config"
	"github.com/alnovis/protounify/pkg/observability"
	"github.com/alnovis/protounify/pkg/schema"
)

// analyzeParallelism caps concurrent version compilations.
const analyzeParallelism = 4

// Analyzer compiles .proto sources into per-version schemas.
type Analyzer struct {
	logger *observability.Logger
}

// New creates an Analyzer. A nil logger falls back to a default stdout
// logger.
func New(logger *observability.Logger) *Analyzer {
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &Analyzer{logger: logger}
}

// AnalyzeVersion compiles every .proto file under dir and converts the
// result into one version schema. File paths in the returned schema are
// relative to dir.
func (a *Analyzer) AnalyzeVersion(ctx context.Context, version schema.VersionID, dir string) (*schema.VersionSchema, error) {
	files, err := ListProtoFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("version %s: %w", version, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("version %s: no .proto files under %s", version, dir)
	}

	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			ImportPaths: []string{dir},
		}),
		SourceInfoMode: protocompile.SourceInfoNone,
	}

	compiled, err := compiler.Compile(ctx, files...)
	if err != nil {
		return nil, fmt.Errorf("version %s: compiling: %w", version, err)
	}

	vs := &schema.VersionSchema{Version: version}
	for _, fd := range compiled {
		convertFile(vs, fd)
	}

	a.logger.WithFields(map[string]interface{}{
		"version":  version,
		"files":    len(files),
		"messages": len(vs.Messages),
		"enums":    len(vs.Enums),
	}).Debug("analyzed version")
	return vs, nil
}

// AnalyzeSources compiles in-memory proto sources, keyed by filename. Used
// by tests and tooling that do not have a source tree on disk.
func (a *Analyzer) AnalyzeSources(ctx context.Context, version schema.VersionID, sources map[string]string) (*schema.VersionSchema, error) {
	filenames := make([]string, 0, len(sources))
	for name := range sources {
		filenames = append(filenames, name)
	}
	sort.Strings(filenames)

	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			Accessor: protocompile.SourceAccessorFromMap(sources),
		}),
		SourceInfoMode: protocompile.SourceInfoNone,
	}

	compiled, err := compiler.Compile(ctx, filenames...)
	if err != nil {
		return nil, fmt.Errorf("version %s: compiling: %w", version, err)
	}

	vs := &schema.VersionSchema{Version: version}
	for _, fd := range compiled {
		convertFile(vs, fd)
	}
	return vs, nil
}

// AnalyzeAll compiles every configured version in parallel and returns the
// schemas in declaration order. The first failure cancels the remaining
// compilations.
func (a *Analyzer) AnalyzeAll(ctx context.Context, root string, versions []config.VersionConfig) ([]*schema.VersionSchema, error) {
	results := make([]*schema.VersionSchema, len(versions))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(analyzeParallelism)

	for i, vc := range versions {
		i, vc := i, vc
		g.Go(func() error {
			vs, err := a.AnalyzeVersion(ctx, schema.VersionID(vc.ID), filepath.Join(root, vc.Path))
			if err != nil {
				return err
			}
			mu.Lock()
			results[i] = vs
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ListProtoFiles returns every .proto file under dir, as sorted
// slash-separated paths relative to dir.
func ListProtoFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".proto") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
