package checksum

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bitswalk/pkg-builder/src/common/errors"
)

func writeTarball(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hello_1.0.0.orig.tar.gz")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVerify(t *testing.T) {
	buffers := [][]byte{
		[]byte("hello world\n"),
		{},
		[]byte(strings.Repeat("x", 100000)),
	}

	for i, data := range buffers {
		path := writeTarball(t, data)
		s256 := sha256.Sum256(data)
		s512 := sha512.Sum512(data)

		tests := []struct {
			name     string
			expected string
			wantErr  *errors.Error
		}{
			{"no checksum", "", nil},
			{"sha256", hex.EncodeToString(s256[:]), nil},
			{"sha512", hex.EncodeToString(s512[:]), nil},
			{"sha256 upper case", strings.ToUpper(hex.EncodeToString(s256[:])), nil},
			{"mismatch", strings.Repeat("0", 64), errors.ErrChecksumMismatch},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := Verify(path, tt.expected)
				if tt.wantErr == nil {
					if err != nil {
						t.Fatalf("buffer %d: unexpected error: %v", i, err)
					}
					return
				}
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("buffer %d: expected %v, got %v", i, tt.wantErr, err)
				}
			})
		}
	}
}

func TestVerify_MismatchDoesNotLeakDigest(t *testing.T) {
	data := []byte("payload")
	path := writeTarball(t, data)
	s256 := sha256.Sum256(data)

	err := Verify(path, strings.Repeat("a", 64))
	if err == nil {
		t.Fatal("expected mismatch")
	}
	if strings.Contains(err.Error(), hex.EncodeToString(s256[:])) {
		t.Error("error message must not contain the computed digest")
	}
}

func TestVerify_UnreadableFile(t *testing.T) {
	err := Verify(filepath.Join(t.TempDir(), "missing.tar.gz"), strings.Repeat("a", 64))
	if !errors.Is(err, errors.ErrChecksumRead) {
		t.Fatalf("expected ErrChecksumRead, got %v", err)
	}
	if errors.Is(err, errors.ErrChecksumMismatch) {
		t.Fatal("read failure must not be reported as mismatch")
	}
}

func TestVerify_MissingFileWithoutChecksum(t *testing.T) {
	if err := Verify(filepath.Join(t.TempDir(), "missing.tar.gz"), ""); err != nil {
		t.Fatalf("verification without checksum should succeed, got %v", err)
	}
}

func TestSHA1File(t *testing.T) {
	data := []byte("artifact")
	path := writeTarball(t, data)
	want := sha1.Sum(data)

	got, err := SHA1File(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != hex.EncodeToString(want[:]) {
		t.Errorf("SHA1File = %s, want %x", got, want)
	}
}
