package run

import (
	"fmt"
	"testing"
	"time"

	"prodinsight/domain/core"
	"prodinsight/domain/insight"
	"prodinsight/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint_Deterministic(t *testing.T) {
	hash := core.NewHash([]byte("product_id,rating\nB01,4.2\n"))

	fp1 := NewFingerprint(hash, 42, CodeVersion)
	fp2 := NewFingerprint(hash, 42, CodeVersion)

	assert.Equal(t, fp1, fp2)
	assert.Len(t, fp1.Fingerprint.String(), 64)
	assert.Equal(t, hash, fp1.InputSHA256)
}

func TestFingerprint_Unique(t *testing.T) {
	hash := core.NewHash([]byte("a"))
	base := NewFingerprint(hash, 42, "1.0.0")

	variants := map[string]Fingerprint{
		"input":   NewFingerprint(core.NewHash([]byte("b")), 42, "1.0.0"),
		"seed":    NewFingerprint(hash, 7, "1.0.0"),
		"version": NewFingerprint(hash, 42, "1.0.1"),
	}
	for name, fp := range variants {
		assert.NotEqual(t, base.Fingerprint, fp.Fingerprint, name)
	}
}

func TestManifest_Records(t *testing.T) {
	m := NewManifest("products.csv", core.NewHash([]byte("x")), 42)
	_, err := core.ParseRunID(m.RunID.String())
	require.NoError(t, err)

	m.RecordArtifact("summary_stats.json", nil)
	m.RecordArtifact("report.html", errors.ArtifactWriteFailed("report.html", fmt.Errorf("disk full")))
	m.RecordInsights(
		[]insight.Insight{{ID: "insight1"}, {ID: "insight3"}},
		[]insight.Skipped{{ID: "insight2", Reason: "no data"}},
	)
	m.RecordStage("read", time.Now().Add(-5*time.Millisecond))

	assert.Equal(t, []string{"summary_stats.json"}, m.ArtifactsWritten)
	require.Len(t, m.ArtifactsFailed, 1)
	assert.Equal(t, errors.CodeArtifactWrite, m.ArtifactsFailed[0].Code)
	assert.Contains(t, m.ArtifactsFailed[0].Error, "disk full")
	assert.Equal(t, []string{"insight1", "insight3"}, m.InsightsEmitted)
	assert.Equal(t, "insight2", m.InsightsSkipped[0].ID)
	require.Len(t, m.Timings, 1)
	assert.GreaterOrEqual(t, m.Timings[0].DurationMs, int64(5))
}

func TestManifest_Validate(t *testing.T) {
	m := NewManifest("products.csv", core.NewHash([]byte("x")), 42)
	require.Error(t, m.Validate())

	m.Finish()
	require.NoError(t, m.Validate())

	m.RunID = ""
	assert.Equal(t, errors.CodeInternalError, errors.GetCode(m.Validate()))
}
