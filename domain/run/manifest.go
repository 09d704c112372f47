package run

import (
	"time"

	"prodinsight/domain/core"
	"prodinsight/domain/insight"
	"prodinsight/internal/errors"
)

// Manifest records what one pipeline run read, produced and skipped.
// It is written last, after every other artifact.
type Manifest struct {
	RunID            core.RunID        `json:"run_id"`
	InputFile        string            `json:"input_file"`
	InputFormat      string            `json:"input_format"`
	Fingerprint      Fingerprint       `json:"fingerprint"`
	RecordCount      int               `json:"record_count"`
	HasReviewTitle   bool              `json:"has_review_title"`
	ArtifactsWritten []string          `json:"artifacts_written"`
	ArtifactsFailed  []ArtifactFailure `json:"artifacts_failed"`
	InsightsEmitted  []string          `json:"insights_emitted"`
	InsightsSkipped  []insight.Skipped `json:"insights_skipped"`
	Timings          []StageTiming     `json:"timings"`
	StartedAt        time.Time         `json:"started_at"`
	FinishedAt       time.Time         `json:"finished_at"`
}

// NewManifest starts the manifest of a run over inputFile
func NewManifest(inputFile string, inputHash core.Hash, seed int64) *Manifest {
	return &Manifest{
		RunID:            core.NewRunID(),
		InputFile:        inputFile,
		Fingerprint:      NewFingerprint(inputHash, seed, CodeVersion),
		ArtifactsWritten: []string{},
		ArtifactsFailed:  []ArtifactFailure{},
		InsightsEmitted:  []string{},
		InsightsSkipped:  []insight.Skipped{},
		Timings:          []StageTiming{},
		StartedAt:        time.Now().UTC(),
	}
}

// RecordArtifact notes the outcome of writing one artifact
func (m *Manifest) RecordArtifact(name string, err error) {
	if err == nil {
		m.ArtifactsWritten = append(m.ArtifactsWritten, name)
		return
	}
	m.ArtifactsFailed = append(m.ArtifactsFailed, ArtifactFailure{
		Name:  name,
		Code:  errors.GetCode(err),
		Error: err.Error(),
	})
}

// RecordInsights notes which hypothesis tests produced an insight
func (m *Manifest) RecordInsights(emitted []insight.Insight, skipped []insight.Skipped) {
	for _, ins := range emitted {
		m.InsightsEmitted = append(m.InsightsEmitted, ins.ID)
	}
	m.InsightsSkipped = append(m.InsightsSkipped, skipped...)
}

// RecordStage appends the duration of a finished stage
func (m *Manifest) RecordStage(stage string, started time.Time) {
	m.Timings = append(m.Timings, StageTiming{
		Stage:      stage,
		DurationMs: time.Since(started).Milliseconds(),
	})
}

// Finish stamps the end time
func (m *Manifest) Finish() {
	m.FinishedAt = time.Now().UTC()
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return errors.InternalError("run manifest: run_id cannot be empty")
	}
	if m.Fingerprint.InputSHA256.IsEmpty() {
		return errors.InternalError("run manifest: input hash cannot be empty")
	}
	if m.FinishedAt.IsZero() {
		return errors.InternalError("run manifest: run not finished")
	}
	return nil
}
