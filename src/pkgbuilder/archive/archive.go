// Package archive lists and extracts upstream source tarballs.
package archive

import (
	"archive/tar"
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/bitswalk/pkg-builder/src/common/errors"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/command"
	"github.com/klauspost/pgzip"
	"github.com/ulikunitz/xz"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// ListEntries returns the paths of all non-directory entries in a tarball,
// as tar --list would print them. pax headers are not entries.
// Compression (gzip, xz or none) is detected from the file's magic bytes.
func ListEntries(tarballPath string) ([]string, error) {
	f, err := os.Open(tarballPath)
	if err != nil {
		return nil, errors.ErrExtractFailed.WithCause(err).WithMessagef("failed to open %s", tarballPath)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	magic, _ := br.Peek(len(xzMagic))

	var reader io.Reader = br
	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		gz, err := pgzip.NewReader(br)
		if err != nil {
			return nil, errors.ErrExtractFailed.WithCause(err).WithMessagef("failed to read gzip stream of %s", tarballPath)
		}
		defer gz.Close()
		reader = gz
	case bytes.HasPrefix(magic, xzMagic):
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, errors.ErrExtractFailed.WithCause(err).WithMessagef("failed to read xz stream of %s", tarballPath)
		}
		reader = xr
	}

	var entries []string
	tr := tar.NewReader(reader)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.ErrExtractFailed.WithCause(err).WithMessagef("failed to list %s", tarballPath)
		}
		switch header.Typeflag {
		case tar.TypeDir, tar.TypeXGlobalHeader, tar.TypeXHeader:
			continue
		}
		if strings.HasSuffix(header.Name, "/") {
			continue
		}
		entries = append(entries, header.Name)
	}

	return entries, nil
}

// LongestCommonPrefix returns the longest character prefix shared by all entries
func LongestCommonPrefix(entries []string) string {
	if len(entries) == 0 {
		return ""
	}

	prefix := entries[0]
	for _, e := range entries[1:] {
		n := 0
		for n < len(prefix) && n < len(e) && prefix[n] == e[n] {
			n++
		}
		prefix = prefix[:n]
		if prefix == "" {
			break
		}
	}
	return prefix
}

// StripComponents computes the --strip-components value that flattens a
// single wrapping directory. With one entry its parent directory is the
// prefix. Only whole path components count: "pkg-1.0/ab" from
// "pkg-1.0/abc" and "pkg-1.0/abd" strips one component, not two.
func StripComponents(entries []string) int {
	var prefix string
	if len(entries) == 1 {
		dir := path.Dir(entries[0])
		if dir == "." || dir == "/" {
			return 0
		}
		prefix = dir + "/"
	} else {
		prefix = LongestCommonPrefix(entries)
	}

	idx := strings.LastIndex(prefix, "/")
	if idx < 0 {
		return 0
	}

	count := 0
	for _, part := range strings.Split(prefix[:idx], "/") {
		if part != "" {
			count++
		}
	}
	return count
}

// Extract unpacks tarballPath into destDir, stripping the common top-level
// directories so the build tree is flat.
func Extract(ctx context.Context, runner command.Runner, tarballPath, destDir string) error {
	entries, err := ListEntries(tarballPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return errors.ErrExtractFailed.WithCause(err).WithMessagef("failed to create %s", destDir)
	}

	args := []string{"-x", "-f", tarballPath, "-C", destDir}
	if n := StripComponents(entries); n > 0 {
		args = append(args, "--strip-components="+strconv.Itoa(n))
	}

	if _, err := runner.Output(ctx, "tar", args, ""); err != nil {
		var cmdErr *command.CommandError
		if errors.As(err, &cmdErr) {
			return errors.ErrExtractFailed.WithCause(err).WithMessagef("tar failed: %s", cmdErr.Stderr)
		}
		return errors.ErrExtractFailed.WithCause(err)
	}
	return nil
}
