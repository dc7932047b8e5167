// Package version reports build identification for the contextwatch
// binaries. Values are injected via -ldflags; anything the linker leaves
// blank falls back to the VCS stamps the Go toolchain embeds.
package version

import "runtime/debug"

var (
	// Version is the release version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = ""
	// Date is the build timestamp (set via -ldflags).
	Date = ""
)

type Info struct {
	Version   string
	Commit    string
	Date      string
	GoVersion string
	Dirty     bool
}

// Resolve merges the linker-injected values with the embedded build info.
func Resolve() Info {
	resolved := Info{
		Version: Version,
		Commit:  Commit,
		Date:    Date,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return resolved
	}

	resolved.GoVersion = bi.GoVersion
	if resolved.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		resolved.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if resolved.Commit == "" {
				resolved.Commit = s.Value
			}
		case "vcs.time":
			if resolved.Date == "" {
				resolved.Date = s.Value
			}
		case "vcs.modified":
			resolved.Dirty = s.Value == "true"
		}
	}

	return resolved
}

// String renders "version (commit)" with the commit shortened, marking
// builds from a modified tree.
func String() string {
	info := Resolve()
	out := info.Version
	if info.Commit != "" {
		out += " (" + shortCommit(info.Commit) + ")"
	}
	if info.Dirty {
		out += " dirty"
	}
	return out
}

func shortCommit(commit string) string {
	if len(commit) <= 12 {
		return commit
	}
	return commit[:12]
}
