package source

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/bitswalk/pkg-builder/src/common/errors"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/command"
	"github.com/google/renameio"
	"github.com/klauspost/pgzip"
	"golang.org/x/sys/unix"
)

// Epoch is the modification time every file in a repacked tree gets
var Epoch = time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)

// NormalizeTimestamps sets atime and mtime of every entry under root,
// symlinks included, to Epoch.
func NormalizeTimestamps(root string) error {
	ts := []unix.Timeval{
		unix.NsecToTimeval(Epoch.UnixNano()),
		unix.NsecToTimeval(Epoch.UnixNano()),
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return unix.Lutimes(path, ts)
		}
		return os.Chtimes(path, Epoch, Epoch)
	})
}

// TarArgs returns the tar flags that make an archive depend only on file
// names, contents, modes and the fixed Epoch.
func TarArgs(output, dir string) []string {
	return []string{
		"--sort=name",
		"--owner=0",
		"--group=0",
		"--numeric-owner",
		"--mtime=@" + strconv.FormatInt(Epoch.Unix(), 10),
		"--pax-option=exthdr.name=%d/PaxHeaders/%f,delete=atime,delete=ctime",
		"-cf", output,
		dir,
	}
}

// CreateDeterministicTarball packs srcDir (relative to its parent) into a
// gzip tarball at tarballPath. tar writes an uncompressed archive; the gzip
// layer is added here with an empty header so no timestamp or file name
// leaks into the output.
func CreateDeterministicTarball(ctx context.Context, runner command.Runner, srcDir, tarballPath string) error {
	parent := filepath.Dir(srcDir)
	plain := tarballPath + ".tar.tmp"
	defer os.Remove(plain)

	log.Info("Creating reproducible tarball", "src", srcDir, "dest", tarballPath)
	if err := runner.Execute(ctx, "tar", TarArgs(plain, filepath.Base(srcDir)), parent); err != nil {
		return errors.ErrTarballFailed.WithCause(err).WithMessagef("tar failed for %s", srcDir)
	}

	if err := gzipFile(plain, tarballPath); err != nil {
		return errors.ErrTarballFailed.WithCause(err).WithMessagef("failed to compress %s", tarballPath)
	}
	return nil
}

// gzipFile compresses src into dst atomically with a zeroed gzip header
func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := renameio.TempFile("", dst)
	if err != nil {
		return err
	}
	defer out.Cleanup()

	zw, err := pgzip.NewWriterLevel(out, pgzip.BestCompression)
	if err != nil {
		return err
	}
	zw.Header.ModTime = time.Time{}
	zw.Header.Name = ""
	zw.Header.OS = 255

	if _, err := io.Copy(zw, in); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return out.CloseAtomicallyReplace()
}
