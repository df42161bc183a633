package sources

import "strings"

const (
	// DefaultSeparator is the word separator in index names replaced in file names
	DefaultSeparator = "_"

	artifactPrefix = "settings-"
	artifactSuffix = ".yaml"
)

// NormalizeName lower-cases name and replaces every separator with a dash
func NormalizeName(name, separator string) string {
	if separator == "" {
		separator = DefaultSeparator
	}
	return strings.ToLower(strings.ReplaceAll(name, separator, "-"))
}

// ArtifactName returns the settings file name for an index
func ArtifactName(index, separator string) string {
	return artifactPrefix + NormalizeName(index, separator) + artifactSuffix
}
