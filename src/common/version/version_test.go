package version

import (
	"testing"

	"github.com/bitswalk/pkg-builder/src/common/errors"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2.116.3", "v2.116.3"},
		{"v0.3.1", "v0.3.1"},
		{"5.28", "v5.28.0"},
		{" 1.1.7 ", "v1.1.7"},
		{"8189263", "v8189263.0.0"},
		{"latest", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Canonical(tt.in); got != tt.want {
				t.Errorf("Canonical(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	if !Matches("2.116.3", "v2.116.3") {
		t.Error("expected semantic match")
	}
	if Matches("2.116.3", "2.117.0") {
		t.Error("expected mismatch")
	}
	if !Matches("0.85.6-1", "0.85.6-1") {
		t.Error("expected raw string match")
	}
	if Matches("abc", "abd") {
		t.Error("expected raw string mismatch")
	}
}

func TestCheckCompatible(t *testing.T) {
	tests := []struct {
		name     string
		running  string
		required string
		want     Compatibility
		wantErr  bool
	}{
		{"same", "0.3.1", "0.3.1", Same, false},
		{"older required", "0.3.1", "0.2.5", RequiresOlder, false},
		{"newer required", "0.3.1", "0.4.0", Same, true},
		{"unparseable", "dev", "0.3.1", Same, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckCompatible(tt.running, tt.required)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrIncompatibleVersion) {
					t.Fatalf("expected ErrIncompatibleVersion, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CheckCompatible = %v, want %v", got, tt.want)
			}
		})
	}
}
