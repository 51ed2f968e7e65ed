package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestColored(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	tests := []struct {
		in, want string
	}{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3-rc.1+build.123", "1.2.3-rc.1+build.123"},
		{"1.2", "1.2"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Colored(tt.in); got != tt.want {
			t.Errorf("Colored(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCurrentUsesOverrides(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	Version = "1.2.3"
	GitCommit = "abc123def4567890"
	BuildDate = "2024-01-15T10:30:00Z"

	info := Current()
	if info.Version != "1.2.3" || info.GitCommit != GitCommit || info.BuildDate != BuildDate {
		t.Fatalf("Current() = %+v", info)
	}
}

func TestInfoString(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	out := Info{Version: "0.1.0", GitCommit: "abc123def4567890", GitMessage: "fix lexer"}.String()
	want := "quoted 0.1.0\ncommit: abc123def456 (fix lexer)\n"
	if out != want {
		t.Fatalf("String() = %q, want %q", out, want)
	}
	if strings.Contains(Info{Version: "1.0.0"}.String(), "commit") {
		t.Fatal("empty commit must be omitted")
	}
}
