package version

// Version information for armoss
const (
	// Version is the current semantic version of armoss
	Version = "0.2.0"

	// Name is the tool name used in CLI output
	Name = "armoss"

	// Description is the one-line tool description
	Description = "Winnowing-based similarity detection for ARMv7 assembly projects"
)
