// Package hypothesis runs the fixed battery of significance tests over the
// normalized catalog and renders each result as an insight.
package hypothesis

import (
	"fmt"

	"prodinsight/domain/insight"
	"prodinsight/domain/product"
	"prodinsight/internal"
	"prodinsight/internal/aggregate"
	"prodinsight/internal/errors"
)

// Rounding applied to emitted insight metrics. p-values are not rounded.
const (
	MeanPlaces      = 3
	StatisticPlaces = 4
)

// Input is everything the tests read. It is never mutated.
type Input struct {
	Records    []product.NormalizedRecord
	Categories []aggregate.CategoryAggregate
	Tiers      []aggregate.TierGroup
}

// Result holds the emitted insights in test order and the skipped tests
type Result struct {
	Insights []insight.Insight
	Skipped  []insight.Skipped
}

// Test computes one insight or returns an error that causes it to be skipped
type Test struct {
	ID  string
	Run func(Input) (insight.Insight, error)
}

// Engine runs tests independently so one failure never blocks the others
type Engine struct {
	tests  []Test
	logger *internal.Logger
}

// NewEngine creates an engine with the standard seven tests
func NewEngine(logger *internal.Logger) *Engine {
	return NewEngineWithTests(logger, DefaultTests())
}

// NewEngineWithTests creates an engine running the given tests in order
func NewEngineWithTests(logger *internal.Logger, tests []Test) *Engine {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Engine{tests: tests, logger: logger}
}

// DefaultTests returns the standard battery in emission order
func DefaultTests() []Test {
	return []Test{
		{ID: "insight1", Run: discountVsRating},
		{ID: "insight2", Run: discountVsEngagement},
		{ID: "insight3", Run: categoryQuality},
		{ID: "insight4", Run: priceTierVsRating},
		{ID: "insight5", Run: discountStrategyByCategory},
		{ID: "insight6", Run: discountRatingCorrelation},
		{ID: "insight7", Run: bestSellerQuality},
	}
}

// Run executes every test. Insufficient data skips a test; any other error or
// panic is logged and also skips only that test.
func (e *Engine) Run(in Input) Result {
	var res Result
	for _, t := range e.tests {
		ins, err := e.runOne(t, in)
		if err != nil {
			if errors.IsCode(err, errors.CodeInsufficientData) {
				e.logger.Info("[Hypothesis] Skipping %s: %v", t.ID, err)
			} else {
				e.logger.Warn("[Hypothesis] %s failed: %v", t.ID, err)
			}
			res.Skipped = append(res.Skipped, insight.Skipped{ID: t.ID, Reason: err.Error()})
			continue
		}
		e.logger.Debug("[Hypothesis] %s p=%g significant=%t", t.ID, ins.PValue, ins.Significant)
		res.Insights = append(res.Insights, ins)
	}
	return res
}

func (e *Engine) runOne(t Test, in Input) (ins insight.Insight, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.InternalError(fmt.Sprintf("panic in %s: %v", t.ID, r))
		}
	}()

	ins, err = t.Run(in)
	if err != nil {
		return insight.Insight{}, err
	}
	ins.ID = t.ID
	return ins, nil
}
