package orchestrator

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnovis/protounify/pkg/config"
	"github.com/alnovis/protounify/pkg/schema"
)

func writeProto(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.SchemaRoot = filepath.Join(base, "proto")
	cfg.OutputDir = filepath.Join(base, "gen")
	cfg.CacheDir = filepath.Join(base, "cache")
	cfg.Versions = []config.VersionConfig{
		{ID: "v1", Path: "v1"},
		{ID: "v2", Path: "v2"},
	}

	writeProto(t, cfg.SchemaRoot, "v1/money.proto", `syntax = "proto3";
package shop.v1;
message Money {
  int32 amount = 1;
  string currency = 2;
}
`)
	writeProto(t, cfg.SchemaRoot, "v2/money.proto", `syntax = "proto3";
package shop.v2;
message Money {
  int64 amount = 1;
  string currency = 2;
}
`)
	return cfg
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	o := New(cfg, nil)

	result, err := o.Run(context.Background(), false)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.True(t, result.ColdStart)
	assert.False(t, result.Skipped)
	require.NotNil(t, result.Merged)

	amount := result.Merged.Message("Money").FieldByName("amount")
	require.NotNil(t, amount)
	assert.Equal(t, schema.ConflictWidening, amount.Conflict)
	assert.Equal(t, schema.FieldTypeInt64, amount.Resolved.Type)
	assert.Equal(t, 1, result.Conflicts.Total())

	t.Run("output document written", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(cfg.OutputDir, unifiedDocumentName))
		require.NoError(t, err)

		var doc unifiedDocument
		require.NoError(t, json.Unmarshal(data, &doc))
		assert.Equal(t, []string{"v1", "v2"}, doc.Versions)
		assert.Equal(t, "v2", doc.DefaultVersion)
		require.Len(t, doc.Messages, 1)

		var amountDoc *fieldDocument
		for i := range doc.Messages[0].Fields {
			if doc.Messages[0].Fields[i].Name == "amount" {
				amountDoc = &doc.Messages[0].Fields[i]
			}
		}
		require.NotNil(t, amountDoc)
		assert.Equal(t, "WIDENING", amountDoc.Conflict)
		assert.Equal(t, "int64", amountDoc.Type)
		assert.Equal(t, "range_checked", amountDoc.Write)
	})

	t.Run("conflict report written", func(t *testing.T) {
		_, err := os.Stat(filepath.Join(cfg.OutputDir, conflictReportName))
		assert.NoError(t, err)
	})
}

func TestRunSkipsWhenUnchanged(t *testing.T) {
	cfg := testConfig(t)
	o := New(cfg, nil)

	first, err := o.Run(context.Background(), false)
	require.NoError(t, err)
	require.False(t, first.Skipped)

	second, err := o.Run(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, second.Skipped)
	assert.False(t, second.ColdStart)

	t.Run("force bypasses the gate", func(t *testing.T) {
		forced, err := o.Run(context.Background(), true)
		require.NoError(t, err)
		assert.False(t, forced.Skipped)
	})
}

func TestRunRegeneratesOnChange(t *testing.T) {
	cfg := testConfig(t)
	o := New(cfg, nil)

	_, err := o.Run(context.Background(), false)
	require.NoError(t, err)

	// Touch alone is not enough; content must change.
	writeProto(t, cfg.SchemaRoot, "v2/money.proto", `syntax = "proto3";
package shop.v2;
message Money {
  int64 amount = 1;
  string currency = 2;
  string note = 3;
}
`)
	// Filesystems with coarse mtime granularity need the new mtime to differ.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(filepath.Join(cfg.SchemaRoot, "v2", "money.proto"), future, future))

	result, err := o.Run(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, []string{"v2/money.proto"}, result.Changes.Modified)
	assert.NotNil(t, result.Merged.Message("Money").FieldByName("note"))
}

func TestRunColdStartsOnConfigChange(t *testing.T) {
	cfg := testConfig(t)
	o := New(cfg, nil)

	_, err := o.Run(context.Background(), false)
	require.NoError(t, err)

	// An output-affecting option changes the digest and discards the cache.
	cfg.Naming.VersionSuffix = true
	o2 := New(cfg, nil)
	result, err := o2.Run(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, result.ColdStart)
	assert.False(t, result.Skipped)
}

func TestRunExpandsChangesThroughImports(t *testing.T) {
	cfg := testConfig(t)
	writeProto(t, cfg.SchemaRoot, "v1/order.proto", `syntax = "proto3";
package shop.v1;
import "money.proto";
message Order {
  Money total = 1;
}
`)
	o := New(cfg, nil)

	_, err := o.Run(context.Background(), false)
	require.NoError(t, err)

	writeProto(t, cfg.SchemaRoot, "v1/money.proto", `syntax = "proto3";
package shop.v1;
message Money {
  int32 amount = 1;
  string currency = 2;
  string symbol = 3;
}
`)
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(filepath.Join(cfg.SchemaRoot, "v1", "money.proto"), future, future))

	result, err := o.Run(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"v1/money.proto"}, result.Changes.Modified)
	assert.Contains(t, result.Affected, "v1/order.proto")
}

func TestNamingOverridesInDocument(t *testing.T) {
	cfg := testConfig(t)
	cfg.Naming.TypeOverrides = map[string]string{"Money": "Amount"}
	cfg.Naming.MessagePrefix = "Api"
	o := New(cfg, nil)

	result, err := o.Run(context.Background(), false)
	require.NoError(t, err)
	require.NotNil(t, result.Merged)

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, unifiedDocumentName))
	require.NoError(t, err)
	var doc unifiedDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "ApiAmount", doc.Messages[0].Name)
}
