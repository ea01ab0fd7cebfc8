package langenv

import (
	"strings"
	"testing"

	"github.com/bitswalk/pkg-builder/src/common/errors"
	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		kind Kind
	}{
		{"rust", Spec{LanguageEnv: "rust", RustVersion: "1.76.0", RustBinaryURL: "https://x/rust.tar.xz", RustBinaryGPGAsc: "sig"}, Rust},
		{"go", Spec{LanguageEnv: "go", GoVersion: "1.22.0", GoBinaryURL: "https://x/go.tar.gz", GoBinaryChecksum: "abc"}, Go},
		{"javascript", Spec{LanguageEnv: "javascript", NodeVersion: "20", NodeBinaryURL: "https://x/node.tar.gz", NodeBinaryChecksum: "abc"}, JavaScript},
		{"typescript", Spec{LanguageEnv: "TypeScript", NodeVersion: "20", NodeBinaryURL: "u", NodeBinaryChecksum: "c", YarnVersion: "1.22.19"}, TypeScript},
		{"java", Spec{LanguageEnv: "java", JDKVersion: "17", JDKBinaryURL: "u", JDKBinaryChecksum: "c"}, Java},
		{"dotnet", Spec{LanguageEnv: "dotnet", DotnetPackages: []DotnetPackageSpec{{Name: "dotnet-sdk", Hash: "h", URL: "u"}}}, Dotnet},
		{"nim", Spec{LanguageEnv: "nim", NimVersion: "2.0.2", NimBinaryURL: "u", NimVersionChecksum: "c"}, Nim},
		{"c", Spec{LanguageEnv: "c"}, C},
		{"python", Spec{LanguageEnv: "python"}, Python},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := Parse(tt.spec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if env.Kind() != tt.kind {
				t.Errorf("Kind() = %s, want %s", env.Kind(), tt.kind)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want string
	}{
		{"unknown", Spec{LanguageEnv: "cobol"}, "cobol"},
		{"go missing checksum", Spec{LanguageEnv: "go", GoVersion: "1.22.0", GoBinaryURL: "u"}, "go_binary_checksum"},
		{"typescript without yarn", Spec{LanguageEnv: "typescript", NodeVersion: "20", NodeBinaryURL: "u", NodeBinaryChecksum: "c"}, "yarn_version"},
		{"dotnet empty", Spec{LanguageEnv: "dotnet"}, "dotnet_packages"},
		{"gradle incomplete", Spec{LanguageEnv: "java", JDKVersion: "17", JDKBinaryURL: "u", JDKBinaryChecksum: "c", Gradle: &GradleSpec{GradleVersion: "8.5"}}, "gradle_binary_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.spec)
			if !errors.Is(err, errors.ErrConfigInvalid) {
				t.Fatalf("expected ErrConfigInvalid, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	tmpl := `
# comment
cd /tmp && wget ${url}

echo "${sig}" > file.asc
unknown ${missing}
`
	got := Render(tmpl, map[string]string{"url": "https://x", "sig": "line1\nline2"})
	want := []string{
		"cd /tmp && wget https://x",
		"echo \"line1\nline2\" > file.asc",
		"unknown",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestInstallerFor_Go(t *testing.T) {
	env := GoEnv{Version: "1.22.0", BinaryURL: "https://go.dev/dl/go1.22.0.linux-amd64.tar.gz", BinaryChecksum: "f6c8a87aa03b92c4b0bf3d558e28ea03006eb29db78917daec5cfb6ec1046265"}
	deps := InstallerFor(env).BuildDeps("amd64", "bookworm")

	joined := strings.Join(deps, "\n")
	if !strings.Contains(joined, "wget -q -O go.tar.gz "+env.BinaryURL) {
		t.Errorf("build deps do not download the configured url:\n%s", joined)
	}
	if !strings.Contains(joined, env.BinaryChecksum+" go.tar.gz\" | sha256sum -c -") {
		t.Errorf("build deps do not verify the checksum:\n%s", joined)
	}
	for _, d := range deps {
		if strings.Contains(d, "${") {
			t.Errorf("unexpanded placeholder in %q", d)
		}
	}
}

func TestInstallerFor_Node(t *testing.T) {
	base := NodeEnv{NodeVersion: "20.11.0", NodeBinaryURL: "u", NodeBinaryChecksum: "c"}

	js := InstallerFor(JavaScriptEnv{base}).BuildDeps("amd64", "bookworm")
	for _, d := range js {
		if strings.Contains(d, "yarn") || strings.Contains(d, "typescript") {
			t.Errorf("unexpected command for plain javascript: %q", d)
		}
	}

	base.YarnVersion = "1.22.19"
	ts := InstallerFor(TypeScriptEnv{base}).BuildDeps("amd64", "bookworm")
	joined := strings.Join(ts, "\n")
	if !strings.Contains(joined, "npm install --global yarn@1.22.19") {
		t.Errorf("missing yarn install:\n%s", joined)
	}
	if !strings.Contains(joined, "npm install --global typescript") {
		t.Errorf("missing typescript install:\n%s", joined)
	}
}

func TestInstallerFor_JavaGradle(t *testing.T) {
	env := JavaEnv{JDKVersion: "17", JDKBinaryURL: "u", JDKBinaryChecksum: "c",
		Gradle: &Gradle{Version: "8.5", BinaryURL: "g", BinaryChecksum: "gc"}}
	inst := InstallerFor(env)

	build := strings.Join(inst.BuildDeps("amd64", "jammy"), "\n")
	if !strings.Contains(build, "/opt/lib/gradle/gradle-8.5/bin/gradle") {
		t.Errorf("gradle not installed in build deps:\n%s", build)
	}
	test := strings.Join(inst.TestDeps("jammy"), "\n")
	if strings.Contains(test, "gradle") {
		t.Errorf("test deps should not install gradle:\n%s", test)
	}
}

func TestInstallerFor_Dotnet(t *testing.T) {
	env := DotnetEnv{
		Packages: []DotnetPackage{
			{Name: "dotnet-host", Hash: "h1", URL: "https://packages.microsoft.com/host.deb"},
			{Name: "dotnet-sdk", Hash: "h2", URL: "https://packages.microsoft.com/sdk.deb"},
		},
		Deps: []string{"libicu72", "libssl3"},
	}
	got := InstallerFor(env).BuildDeps("amd64", "bookworm")

	if got[0] != "apt install -y libicu72 libssl3" {
		t.Errorf("first command = %q", got[0])
	}
	joined := strings.Join(got, "\n")
	for _, want := range []string{
		"echo \"h1 dotnet-host.deb\" | sha1sum -c -",
		"apt install -y --allow-downgrades ./dotnet-sdk.deb",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing %q in:\n%s", want, joined)
		}
	}
}

func TestInstallerFor_NoToolchain(t *testing.T) {
	for _, env := range []Env{CEnv{}, PythonEnv{}} {
		inst := InstallerFor(env)
		if len(inst.BuildDeps("amd64", "bookworm")) != 0 || len(inst.TestDeps("bookworm")) != 0 {
			t.Errorf("%s: expected no commands", env.Kind())
		}
	}
}
