package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/composetune/internal/version.Version=...
	Commit  = "unknown" // -X github.com/arthur-debert/composetune/internal/version.Commit=...
	Date    = "unknown" // -X github.com/arthur-debert/composetune/internal/version.Date=...
)

// Summary is the one-line version report
func Summary() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}
