package version

// Version is the current ghl release. It is overridden at build time with
// -ldflags "-X github.com/thomas-vilte/ghl/internal/version.Version=x.y.z".
var Version = "0.9.0"

// FullVersion returns the version with the v prefix used by release tags.
func FullVersion() string {
	return "v" + Version
}
