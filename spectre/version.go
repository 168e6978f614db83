package spectre

// Version information for specleak.
const (
	// Version is the current release.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info provides information about the running oracle.
type Info struct {
	// Version is the release string.
	Version string

	// Technique names the side channel used.
	Technique string

	// Supported indicates whether the hardware channel can run here.
	Supported bool
}

// GetInfo returns information about the oracle and this platform.
//
// Example:
//
//	info := spectre.GetInfo()
//	fmt.Printf("specleak %s (%s)\n", info.Version, info.Technique)
func GetInfo() Info {
	return Info{
		Version:   Version,
		Technique: "bounds check bypass + flush+reload",
		Supported: Supported(),
	}
}
