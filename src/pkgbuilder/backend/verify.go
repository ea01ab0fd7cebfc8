package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitswalk/pkg-builder/src/common/errors"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/checksum"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/config"
)

// Verification outcomes
const (
	StatusOK       = "ok"
	StatusMismatch = "mismatch"
	StatusMissing  = "missing"
	StatusError    = "error"
)

// VerifyResult is the outcome for one expected artifact
type VerifyResult struct {
	Name     string `json:"name" yaml:"name"`
	Expected string `json:"expected" yaml:"expected"`
	Actual   string `json:"actual,omitempty" yaml:"actual,omitempty"`
	Status   string `json:"status" yaml:"status"`
}

// Verify checks the artifacts of the configured build directory
func (s *Sbuild) Verify(ctx context.Context, expected []config.PackageHash) ([]VerifyResult, error) {
	return VerifyArtifacts(s.cfg.ArtifactsDir(), expected)
}

// VerifyArtifacts computes the SHA-1 of every expected file in dir. Every
// missing or mismatched file is reported in one ErrVerificationFailed.
func VerifyArtifacts(dir string, expected []config.PackageHash) ([]VerifyResult, error) {
	results := make([]VerifyResult, 0, len(expected))
	var problems []string

	for _, e := range expected {
		r := VerifyResult{Name: e.Name, Expected: strings.ToLower(strings.TrimSpace(e.Hash))}
		path := filepath.Join(dir, e.Name)

		actual, err := checksum.SHA1File(path)
		switch {
		case os.IsNotExist(err):
			r.Status = StatusMissing
			problems = append(problems, fmt.Sprintf("%s: file not found", e.Name))
		case err != nil:
			r.Status = StatusError
			problems = append(problems, fmt.Sprintf("%s: %v", e.Name, err))
		case actual != r.Expected:
			r.Actual = actual
			r.Status = StatusMismatch
			problems = append(problems, fmt.Sprintf("%s: hash mismatch, expected %s, got %s", e.Name, r.Expected, actual))
		default:
			r.Actual = actual
			r.Status = StatusOK
		}

		log.Debug("Verified artifact", "name", e.Name, "status", r.Status)
		results = append(results, r)
	}

	if len(problems) > 0 {
		return results, errors.ErrVerificationFailed.WithMessage(strings.Join(problems, "; "))
	}
	log.Info("All artifacts verified", "count", len(results))
	return results, nil
}
