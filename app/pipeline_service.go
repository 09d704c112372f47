package app

import (
	"fmt"
	"path/filepath"
	"time"

	"prodinsight/adapters/artifacts"
	"prodinsight/adapters/coercer"
	"prodinsight/adapters/excel"
	"prodinsight/domain/core"
	"prodinsight/domain/insight"
	"prodinsight/domain/product"
	"prodinsight/domain/run"
	"prodinsight/internal"
	"prodinsight/internal/aggregate"
	"prodinsight/internal/config"
	"prodinsight/internal/dashboard"
	"prodinsight/internal/errors"
	"prodinsight/internal/hypothesis"
	"prodinsight/internal/ranking"
)

// PipelineConfig holds the inputs and output switches of one run
type PipelineConfig struct {
	InputFile   string
	OutputDir   string
	XLSXReport  bool
	HTMLReport  bool
	MetricsPath string
}

// PipelineConfigFrom maps the application configuration onto a pipeline run
func PipelineConfigFrom(c *config.Config) PipelineConfig {
	return PipelineConfig{
		InputFile:   c.Input.File,
		OutputDir:   c.Output.Dir,
		XLSXReport:  c.Output.XLSXReport,
		HTMLReport:  c.Output.HTMLReport,
		MetricsPath: c.MetricsPath(),
	}
}

// PipelineService runs read, normalize, analyze and emit once over a snapshot
type PipelineService struct {
	cfg     PipelineConfig
	logger  *internal.Logger
	coercer *coercer.FieldCoercer
	engine  *hypothesis.Engine
}

// PipelineResult is what a finished run produced
type PipelineResult struct {
	Manifest *run.Manifest
	Insights []insight.Insight
	Skipped  []insight.Skipped
}

// NewPipelineService creates a pipeline service
func NewPipelineService(cfg PipelineConfig, logger *internal.Logger) *PipelineService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &PipelineService{
		cfg:     cfg,
		logger:  logger,
		coercer: coercer.NewFieldCoercer(),
		engine:  hypothesis.NewEngine(logger),
	}
}

// analysis holds every derived table of a run
type analysis struct {
	records        []product.NormalizedRecord
	hasReviewTitle bool
	summary        aggregate.Summary
	categories     []aggregate.CategoryAggregate
	priceRanges    []aggregate.BucketAggregate
	discountRanges []aggregate.BucketAggregate
	hypotheses     hypothesis.Result
}

// Run executes the pipeline. Only input and output-directory failures are
// returned; a failing artifact is recorded in the manifest and skipped.
func (s *PipelineService) Run() (*PipelineResult, error) {
	s.logger.Info("[Pipeline] Starting run over %s", s.cfg.InputFile)

	stage := time.Now()
	dataset, err := excel.NewDataReader(s.cfg.InputFile, s.logger).ReadDataset()
	if err != nil {
		return nil, err
	}
	hash, err := core.HashFile(s.cfg.InputFile)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInputMalformed, err)
	}

	manifest := run.NewManifest(s.cfg.InputFile, hash, ranking.SampleSeed)
	manifest.RecordCount = dataset.Len()
	manifest.InputFormat = dataset.Format
	manifest.HasReviewTitle = dataset.HasReviewTitle
	manifest.RecordStage("read", stage)
	s.logger.Info("[Pipeline] Run %s: %d records, input %s", manifest.RunID, dataset.Len(), hash.Short())
	s.logger.Trace("[Pipeline] First row: %v", dataset.Row(0))

	stage = time.Now()
	records, tiers := s.coercer.NormalizeAll(dataset.Records)
	manifest.RecordStage("normalize", stage)
	s.logger.Debug("[Pipeline] %d price tiers survived", tiers.Tiers())

	stage = time.Now()
	a := analysis{
		records:        records,
		hasReviewTitle: dataset.HasReviewTitle,
		summary:        aggregate.Summarize(records),
		categories:     aggregate.ByCategory(records),
		priceRanges:    aggregate.ByPriceRange(records),
		discountRanges: aggregate.ByDiscountRange(records),
	}
	a.hypotheses = s.engine.Run(hypothesis.Input{
		Records:    records,
		Categories: a.categories,
		Tiers:      aggregate.ByPriceTier(records, tiers),
	})
	manifest.RecordInsights(a.hypotheses.Insights, a.hypotheses.Skipped)
	manifest.RecordStage("analyze", stage)
	s.logger.Info("[Pipeline] %d insights emitted, %d skipped", len(a.hypotheses.Insights), len(a.hypotheses.Skipped))

	stage = time.Now()
	w := artifacts.NewWriter(s.cfg.OutputDir, s.logger)
	if err := w.EnsureDir(); err != nil {
		return nil, err
	}
	s.emitAll(w, manifest, a)
	manifest.RecordStage("emit", stage)

	s.emitMetrics(manifest, a.hypotheses.Insights)

	manifest.Finish()
	if err := manifest.Validate(); err != nil {
		s.logger.Warn("[Pipeline] Incomplete manifest: %v", err)
	}
	if err := w.WriteJSON(artifacts.ManifestFile, manifest); err != nil {
		s.logger.Warn("[Emitter] %s failed: %v", artifacts.ManifestFile, err)
	}

	s.logger.Info("[Pipeline] Run %s finished: %d artifacts written, %d failed",
		manifest.RunID, len(manifest.ArtifactsWritten), len(manifest.ArtifactsFailed))

	return &PipelineResult{
		Manifest: manifest,
		Insights: a.hypotheses.Insights,
		Skipped:  a.hypotheses.Skipped,
	}, nil
}

// emitAll builds and writes every artifact. Each one is computed inside its
// own emit call so a failure stays local to that file.
func (s *PipelineService) emitAll(w *artifacts.Writer, m *run.Manifest, a analysis) {
	var (
		topRated      []dashboard.TopRatedRow
		topCategories []aggregate.CategoryAggregate
		qa            dashboard.Artifacts
	)

	writeJSON := func(name string, build func() interface{}) {
		s.emit(m, name, func() error { return w.WriteJSON(name, build()) })
	}

	writeJSON(artifacts.SummaryFile, func() interface{} { return a.summary })
	writeJSON(artifacts.CategoryFile, func() interface{} { return a.categories })
	writeJSON(artifacts.PriceRangeFile, func() interface{} { return artifacts.PriceRangeRows(a.priceRanges) })
	writeJSON(artifacts.DiscountRangeFile, func() interface{} { return artifacts.DiscountRangeRows(a.discountRanges) })
	writeJSON(artifacts.TopRatedFile, func() interface{} {
		topRated = dashboard.TopRated(a.records)
		return topRated
	})
	writeJSON(artifacts.TopCategoriesFile, func() interface{} {
		topCategories = dashboard.TopCategories(a.categories)
		return topCategories
	})
	s.emit(m, artifacts.CleanedDataFile, func() error { return w.WriteCleanedCSV(a.records) })
	writeJSON(artifacts.InsightsFile, func() interface{} { return nonNil(a.hypotheses.Insights) })

	writeJSON(artifacts.Q1File, func() interface{} {
		qa.Q1 = dashboard.AvgRatingByCategory(a.categories)
		return qa.Q1
	})
	writeJSON(artifacts.Q2File, func() interface{} {
		qa.Q2 = dashboard.TopProductsByCategory(a.records)
		return qa.Q2
	})
	writeJSON(artifacts.Q3File, func() interface{} {
		qa.Q3 = dashboard.PriceDistribution(a.records)
		return qa.Q3
	})
	writeJSON(artifacts.Q4File, func() interface{} {
		qa.Q4 = dashboard.AvgDiscountByCategory(a.categories)
		return qa.Q4
	})
	writeJSON(artifacts.Q5File, func() interface{} {
		qa.Q5 = dashboard.PopularProducts(a.records)
		return qa.Q5
	})
	writeJSON(artifacts.Q6File, func() interface{} {
		qa.Q6 = dashboard.Keywords(a.records)
		return qa.Q6
	})
	writeJSON(artifacts.Q7File, func() interface{} {
		qa.Q7 = dashboard.PopularReviews(a.records, a.hasReviewTitle)
		return qa.Q7
	})
	writeJSON(artifacts.Q8File, func() interface{} {
		qa.Q8 = dashboard.PriceRatingCorrelation(a.records)
		return qa.Q8
	})
	writeJSON(artifacts.Q9File, func() interface{} {
		qa.Q9 = dashboard.TopCategoriesByProducts(a.categories)
		return qa.Q9
	})
	writeJSON(artifacts.QAFile, func() interface{} { return dashboard.QA(qa) })

	if !s.cfg.XLSXReport && !s.cfg.HTMLReport {
		return
	}
	report := artifacts.Report{
		Summary:        a.summary,
		Categories:     a.categories,
		PriceRanges:    a.priceRanges,
		DiscountRanges: a.discountRanges,
		TopRated:       topRated,
		TopCategories:  topCategories,
		Insights:       a.hypotheses.Insights,
		QA:             dashboard.QA(qa),
	}
	if s.cfg.XLSXReport {
		s.emit(m, artifacts.WorkbookFile, func() error { return w.WriteWorkbook(report) })
	}
	if s.cfg.HTMLReport {
		var md []byte
		s.emit(m, artifacts.MarkdownReportFile, func() error {
			md = artifacts.RenderMarkdown(report)
			return w.WriteFile(artifacts.MarkdownReportFile, md)
		})
		s.emit(m, artifacts.HTMLReportFile, func() error {
			if md == nil {
				md = artifacts.RenderMarkdown(report)
			}
			return w.WriteFile(artifacts.HTMLReportFile, artifacts.RenderHTML(md))
		})
	}
}

func (s *PipelineService) emitMetrics(m *run.Manifest, insights []insight.Insight) {
	if s.cfg.MetricsPath == "" {
		return
	}
	name := filepath.Base(s.cfg.MetricsPath)
	s.emit(m, name, func() error {
		// counted before the metrics file itself is recorded
		return artifacts.WriteMetrics(s.cfg.MetricsPath, m, insights)
	})
}

// emit runs one artifact builder, converting a panic into an INTERNAL_ERROR
// for that artifact alone
func (s *PipelineService) emit(m *run.Manifest, name string, build func() error) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = errors.InternalError(fmt.Sprintf("panic while building %s: %v", name, r))
			}
		}()
		return build()
	}()
	if err != nil {
		s.logger.Warn("[Emitter] %s failed: %v", name, err)
	}
	m.RecordArtifact(name, err)
}

func nonNil(insights []insight.Insight) []insight.Insight {
	if insights == nil {
		return []insight.Insight{}
	}
	return insights
}
