// Package checksum verifies upstream tarballs and build artifacts.
package checksum

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"io"
	"os"
	"strings"

	"github.com/bitswalk/pkg-builder/src/common/errors"
	"github.com/bitswalk/pkg-builder/src/common/logs"
)

var log = logs.NewDefault()

// SetLogger sets the logger for the checksum package
func SetLogger(l *logs.Logger) {
	if l != nil {
		log = l
	}
}

// Verify checks a tarball against an expected hex digest. Upstreams publish
// either SHA-512 or SHA-256, so both are tried, SHA-512 first. An empty
// expected digest means the tarball is trusted as is.
func Verify(path, expected string) error {
	if expected == "" {
		log.Debug("No checksum configured, skipping verification", "path", path)
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.ErrChecksumRead.WithCause(err).WithMessagef("cannot open or read tarball %s", path)
	}

	expected = strings.ToLower(strings.TrimSpace(expected))

	sum512 := sha512.Sum512(data)
	actual512 := hex.EncodeToString(sum512[:])
	if actual512 == expected {
		log.Info("SHA-512 checksum matches", "path", path)
		return nil
	}

	sum256 := sha256.Sum256(data)
	actual256 := hex.EncodeToString(sum256[:])
	if actual256 == expected {
		log.Info("SHA-256 checksum matches", "path", path)
		return nil
	}

	log.Error("Checksum mismatch",
		"path", path,
		"expected", expected,
		"sha512", actual512,
		"sha256", actual256)
	return errors.ErrChecksumMismatch.WithMessagef("hash of %s matches neither SHA-512 nor SHA-256", path)
}

// SHA1File returns the hex SHA-1 digest of a file
func SHA1File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
