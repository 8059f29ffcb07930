// Package version provides the ecotrack build version.
package version

// version is the current ecotrack version. Release builds override it via
// -ldflags "-X github.com/ecotrack/ecotrack/pkg/version.version=v1.2.3".
var version = "0.1.0-dev" //nolint:gochecknoglobals // Build-time injection target

// GetVersion returns the current version string.
func GetVersion() string {
	return version
}
