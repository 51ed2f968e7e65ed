package version

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
)

// Build metadata of the quoted CLI, set with -ldflags "-X quoted/internal/version.Version=...".
var (
	Version    = "0.1.0-dev"
	GitCommit  = ""
	GitMessage = ""
	BuildDate  = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Info is a snapshot of the build metadata.
type Info struct {
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
	GoVersion  string `json:"go_version,omitempty"`
}

// Current collects the build metadata. A missing commit is taken from the
// VCS stamp the go tool embeds, when there is one.
func Current() Info {
	info := Info{Version: Version, GitCommit: GitCommit, GitMessage: GitMessage, BuildDate: BuildDate}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = s.Value
				}
			case "vcs.time":
				if info.BuildDate == "" {
					info.BuildDate = s.Value
				}
			}
		}
	}
	return info
}

// Colored paints the major, minor and patch parts of a semantic version.
// Anything after the patch (pre-release, build) stays plain.
func Colored(v string) string {
	core, rest := v, ""
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		core, rest = v[:i], v[i:]
	}
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return v
	}
	return majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2]) + rest
}

// String renders the multi-line `quoted version` output.
func (i Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "quoted %s\n", Colored(i.Version))
	if i.GitCommit != "" {
		commit := i.GitCommit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		fmt.Fprintf(&sb, "commit: %s", commit)
		if i.GitMessage != "" {
			fmt.Fprintf(&sb, " (%s)", i.GitMessage)
		}
		sb.WriteByte('\n')
	}
	if i.BuildDate != "" {
		fmt.Fprintf(&sb, "built:  %s\n", i.BuildDate)
	}
	if i.GoVersion != "" {
		fmt.Fprintf(&sb, "go:     %s\n", i.GoVersion)
	}
	return sb.String()
}
