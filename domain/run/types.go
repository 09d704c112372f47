package run

import (
	"fmt"

	"prodinsight/domain/core"
)

// CodeVersion is stamped into every manifest and fingerprint
const CodeVersion = "1.0.0"

// Fingerprint ensures deterministic replay: two runs over the same input with
// the same seed and code version share it
type Fingerprint struct {
	InputSHA256 core.Hash `json:"input_sha256"`
	Seed        int64     `json:"seed"`
	CodeVersion string    `json:"code_version"`
	Fingerprint core.Hash `json:"fingerprint"`
}

// NewFingerprint creates a fingerprint from the determinism parameters
func NewFingerprint(inputHash core.Hash, seed int64, codeVersion string) Fingerprint {
	data := fmt.Sprintf("input:%s|seed:%d|code:%s", inputHash, seed, codeVersion)
	return Fingerprint{
		InputSHA256: inputHash,
		Seed:        seed,
		CodeVersion: codeVersion,
		Fingerprint: core.NewHash([]byte(data)),
	}
}

// StageTiming is the wall-clock duration of one pipeline stage
type StageTiming struct {
	Stage      string `json:"stage"`
	DurationMs int64  `json:"duration_ms"`
}

// ArtifactFailure names an artifact that could not be produced
type ArtifactFailure struct {
	Name  string `json:"name"`
	Code  string `json:"code"`
	Error string `json:"error"`
}
