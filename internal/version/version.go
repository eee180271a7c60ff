// Package version holds build-time metadata injected via ldflags.
package version

// Set at build time:
//
//	-X 'github.com/janekbaraniewski/chatwrapped/internal/version.Version=...'
//	-X 'github.com/janekbaraniewski/chatwrapped/internal/version.CommitHash=...'
//	-X 'github.com/janekbaraniewski/chatwrapped/internal/version.BuildDate=...'
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// String returns a formatted version string.
func String() string {
	return "chatwrapped " + Version + " (" + CommitHash + ") built " + BuildDate
}
