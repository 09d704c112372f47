package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"prodinsight/adapters/artifacts"
	"prodinsight/domain/run"
	"prodinsight/internal"
	"prodinsight/internal/errors"
	"prodinsight/internal/productgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jsonArtifacts = []string{
	artifacts.SummaryFile,
	artifacts.CategoryFile,
	artifacts.PriceRangeFile,
	artifacts.DiscountRangeFile,
	artifacts.TopRatedFile,
	artifacts.TopCategoriesFile,
	artifacts.InsightsFile,
	artifacts.Q1File,
	artifacts.Q2File,
	artifacts.Q3File,
	artifacts.Q4File,
	artifacts.Q5File,
	artifacts.Q6File,
	artifacts.Q7File,
	artifacts.Q8File,
	artifacts.Q9File,
	artifacts.QAFile,
}

func writeFixture(t *testing.T, cfg productgen.Config, name string) string {
	t.Helper()
	ds, err := productgen.Generate(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), name)
	if filepath.Ext(name) == ".xlsx" {
		require.NoError(t, productgen.WriteXLSX(path, ds))
	} else {
		require.NoError(t, productgen.WriteCSV(path, ds))
	}
	return path
}

func runPipeline(t *testing.T, input string, cfg PipelineConfig) (*PipelineResult, string) {
	t.Helper()
	cfg.InputFile = input
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(t.TempDir(), "dashboard_data")
	}
	res, err := NewPipelineService(cfg, internal.Discard()).Run()
	require.NoError(t, err)
	return res, cfg.OutputDir
}

func TestPipeline_WritesEveryArtifact(t *testing.T) {
	input := writeFixture(t, productgen.DefaultConfig(), "products.csv")
	cfg := PipelineConfig{XLSXReport: true, HTMLReport: true}
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.MetricsPath = filepath.Join(cfg.OutputDir, "metrics.prom")

	res, dir := runPipeline(t, input, cfg)

	expected := append([]string{}, jsonArtifacts...)
	expected = append(expected,
		artifacts.CleanedDataFile,
		artifacts.WorkbookFile,
		artifacts.MarkdownReportFile,
		artifacts.HTMLReportFile,
		"metrics.prom",
		artifacts.ManifestFile,
	)
	for _, name := range expected {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	m := res.Manifest
	assert.Empty(t, m.ArtifactsFailed)
	assert.Len(t, m.ArtifactsWritten, len(expected)-1)
	assert.Equal(t, productgen.DefaultConfig().Rows, m.RecordCount)
	assert.True(t, m.HasReviewTitle)
	assert.Len(t, m.InsightsEmitted, 7)
	assert.Empty(t, res.Skipped)
	assert.NoError(t, m.Validate())

	data, err := os.ReadFile(filepath.Join(dir, artifacts.ManifestFile))
	require.NoError(t, err)
	var onDisk run.Manifest
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, m.RunID, onDisk.RunID)
	assert.Equal(t, m.Fingerprint, onDisk.Fingerprint)
}

func TestPipeline_Deterministic(t *testing.T) {
	input := writeFixture(t, productgen.DefaultConfig(), "products.csv")

	first, dirA := runPipeline(t, input, PipelineConfig{})
	second, dirB := runPipeline(t, input, PipelineConfig{})

	for _, name := range append(jsonArtifacts, artifacts.CleanedDataFile) {
		a, err := os.ReadFile(filepath.Join(dirA, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(dirB, name))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), name)
	}

	assert.NotEqual(t, first.Manifest.RunID, second.Manifest.RunID)
	assert.Equal(t, first.Manifest.Fingerprint, second.Manifest.Fingerprint)
}

func TestPipeline_XLSXMatchesCSV(t *testing.T) {
	cfg := productgen.DefaultConfig()
	cfg.Rows = 120
	csvRes, csvDir := runPipeline(t, writeFixture(t, cfg, "products.csv"), PipelineConfig{})
	xlsxRes, xlsxDir := runPipeline(t, writeFixture(t, cfg, "products.xlsx"), PipelineConfig{})

	assert.Equal(t, csvRes.Manifest.RecordCount, xlsxRes.Manifest.RecordCount)
	assert.Equal(t, "xlsx", xlsxRes.Manifest.InputFormat)
	for _, name := range []string{artifacts.SummaryFile, artifacts.CategoryFile, artifacts.InsightsFile} {
		a, err := os.ReadFile(filepath.Join(csvDir, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(xlsxDir, name))
		require.NoError(t, err)
		assert.JSONEq(t, string(a), string(b), name)
	}
}

func TestPipeline_WithoutReviewTitle(t *testing.T) {
	cfg := productgen.DefaultConfig()
	cfg.IncludeReviewTitle = false
	res, dir := runPipeline(t, writeFixture(t, cfg, "products.csv"), PipelineConfig{})

	assert.False(t, res.Manifest.HasReviewTitle)
	data, err := os.ReadFile(filepath.Join(dir, artifacts.Q7File))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
	assert.NoFileExists(t, filepath.Join(dir, artifacts.WorkbookFile))
	assert.NoFileExists(t, filepath.Join(dir, "metrics.prom"))
}

func TestPipeline_SmallInputSkipsTests(t *testing.T) {
	input := filepath.Join(t.TempDir(), "tiny.csv")
	csv := "product_id,product_name,category,discounted_price,actual_price,discount_percentage,rating,rating_count\n" +
		"B01,Boat Cable,Electronics|Cables,\"₹1,299\",\"₹2,599\",50%,4.3,\"12,456\"\n"
	require.NoError(t, os.WriteFile(input, []byte(csv), 0644))

	res, dir := runPipeline(t, input, PipelineConfig{})

	assert.Empty(t, res.Insights)
	assert.Len(t, res.Skipped, 7)
	assert.Empty(t, res.Manifest.ArtifactsFailed)

	data, err := os.ReadFile(filepath.Join(dir, artifacts.InsightsFile))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))

	data, err = os.ReadFile(filepath.Join(dir, artifacts.SummaryFile))
	require.NoError(t, err)
	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, 1299.0, summary["avg_price"])
	assert.Equal(t, 12456.0, summary["total_reviews"])
}

func TestPipeline_InputErrors(t *testing.T) {
	dir := t.TempDir()
	headerOnly := filepath.Join(dir, "header.csv")
	require.NoError(t, os.WriteFile(headerOnly, []byte("product_id,rating\n"), 0644))

	tests := []struct {
		name  string
		input string
		code  string
	}{
		{"missing file", filepath.Join(dir, "absent.csv"), errors.CodeInputNotFound},
		{"malformed file", headerOnly, errors.CodeInputMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(dir, "out-"+tt.name)
			_, err := NewPipelineService(PipelineConfig{InputFile: tt.input, OutputDir: out}, internal.Discard()).Run()
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
			assert.NoDirExists(t, out)
		})
	}
}
