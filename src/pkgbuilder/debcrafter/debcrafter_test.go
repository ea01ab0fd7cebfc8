package debcrafter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitswalk/pkg-builder/src/common/errors"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/command/commandtest"
)

// fakeTools makes dpkg-parsechangelog and the versioned debcrafter resolvable
func fakeTools(t *testing.T, version string, withParsechangelog bool) {
	t.Helper()
	bin := t.TempDir()
	names := []string{BinaryName(version)}
	if withParsechangelog {
		names = append(names, "dpkg-parsechangelog")
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(bin, name), []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("PATH", bin)
}

func writeSpec(t *testing.T) string {
	t.Helper()
	spec := filepath.Join(t.TempDir(), "hello.sss")
	if err := os.WriteFile(spec, []byte("name = \"hello\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return spec
}

func TestGenerate_CopiesDebianDir(t *testing.T) {
	fakeTools(t, "8189263", true)
	spec := writeSpec(t)
	target := t.TempDir()

	if err := os.MkdirAll(filepath.Join(target, "debian"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(target, "debian", "control"), []byte("stale\n"), 0644); err != nil {
		t.Fatal(err)
	}

	rec := commandtest.New().On(BinaryName("8189263"), func(c commandtest.Call) error {
		out := filepath.Join(c.Args[1], "hello-1.0.0", "debian")
		if err := os.MkdirAll(filepath.Join(out, "source"), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(out, "control"), []byte("Source: hello\n"), 0644); err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(out, "rules"), []byte("#!/usr/bin/make -f\n"), 0644)
	})

	if err := Generate(context.Background(), rec, spec, target, "8189263"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	call, _ := rec.Find(BinaryName("8189263"))
	if call.Args[0] != "hello.sss" {
		t.Errorf("debcrafter should receive the spec file name, got %q", call.Args[0])
	}
	wantDir, _ := filepath.EvalSymlinks(filepath.Dir(spec))
	if call.Dir != wantDir {
		t.Errorf("debcrafter ran in %q, want %q", call.Dir, wantDir)
	}

	data, err := os.ReadFile(filepath.Join(target, "debian", "control"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Source: hello\n" {
		t.Errorf("control not overwritten: %q", data)
	}
	if _, err := os.Stat(filepath.Join(target, "debian", "rules")); err != nil {
		t.Errorf("rules not copied: %v", err)
	}
	if _, err := os.Stat(call.Args[1]); !os.IsNotExist(err) {
		t.Error("temporary output directory should be removed")
	}
}

func TestGenerate_MissingParsechangelog(t *testing.T) {
	fakeTools(t, "8189263", false)

	rec := commandtest.New()
	err := Generate(context.Background(), rec, writeSpec(t), t.TempDir(), "8189263")
	if !errors.Is(err, errors.ErrToolMissing) {
		t.Fatalf("expected ErrToolMissing, got %v", err)
	}
	if len(rec.Calls) != 0 {
		t.Error("debcrafter must not run when dpkg-parsechangelog is missing")
	}
}

func TestGenerate_MissingDebcrafterVersion(t *testing.T) {
	fakeTools(t, "8189263", true)

	err := Generate(context.Background(), commandtest.New(), writeSpec(t), t.TempDir(), "1234567")
	if !errors.Is(err, errors.ErrToolMissing) {
		t.Fatalf("expected ErrToolMissing, got %v", err)
	}
}

func TestGenerate_MissingSpecFile(t *testing.T) {
	fakeTools(t, "8189263", true)

	err := Generate(context.Background(), commandtest.New(), filepath.Join(t.TempDir(), "missing.sss"), t.TempDir(), "8189263")
	if !errors.Is(err, errors.ErrSpecFileMissing) {
		t.Fatalf("expected ErrSpecFileMissing, got %v", err)
	}
}

func TestGenerate_NoOutputDir(t *testing.T) {
	fakeTools(t, "8189263", true)

	err := Generate(context.Background(), commandtest.New(), writeSpec(t), t.TempDir(), "8189263")
	if !errors.Is(err, errors.ErrNoDebianDir) {
		t.Fatalf("expected ErrNoDebianDir, got %v", err)
	}
}
