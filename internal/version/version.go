package version

import (
	"strconv"

	"github.com/fatih/color"
)

// Build metadata for the movec CLI.
// Every variable can be overridden at build time via -ldflags.

var (
	// Version is the semantic version reported by --version and the
	// version subcommand.
	Version = versionString(0, 1, 0, "dev")

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// versionString раскрашивает каждый сегмент semver своим цветом.
func versionString(major, minor, patch int, pre string) string {
	s := majorColor.Sprint(strconv.Itoa(major)) +
		"." + minorColor.Sprint(strconv.Itoa(minor)) +
		"." + patchColor.Sprint(strconv.Itoa(patch))
	if pre != "" {
		s += "-" + pre
	}
	return s
}
