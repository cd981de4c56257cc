// Package buildinfo holds version information injected at build time via ldflags:
//
//	-X github.com/kruzic-io/kruzic/internal/buildinfo.Version=0.2.0
package buildinfo

import "fmt"

var (
	Version    = "dev"
	Codename   = "Kolo"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Summary returns "<version> (<codename>)".
func Summary() string {
	return fmt.Sprintf("%s (%s)", Version, Codename)
}
