// Package version provides utilities for version parsing and comparison,
// particularly for matching Git tags against chart versions.
package version

import (
	"fmt"
	"strings"
)

// BinaryVersion is the chartci build version, overridden at link time.
var BinaryVersion = "0.1.0"

// semverComponents is the number of numeric components compared.
const semverComponents = 3

// FromTagRef extracts the version a tag ref names, e.g.
// "refs/tags/v1.2.3" -> "1.2.3". The leading "v" is optional on the tag.
func FromTagRef(ref string) (string, error) {
	tag, ok := strings.CutPrefix(ref, "refs/tags/")
	if !ok {
		return "", fmt.Errorf("ref %q is not a tag ref", ref)
	}
	version := strings.TrimPrefix(tag, "v")
	if version == "" {
		return "", fmt.Errorf("tag ref %q names an empty version", ref)
	}
	return version, nil
}

// MatchesChart reports whether a tag ref names the same version as the
// chart. Build metadata after "+" is ignored on both sides.
func MatchesChart(ref, chartVersion string) (bool, error) {
	tagVersion, err := FromTagRef(ref)
	if err != nil {
		return false, err
	}
	return normalize(tagVersion) == normalize(chartVersion), nil
}

func normalize(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "v")
	return strings.Split(v, "+")[0]
}

// IsGreaterOrEqual compares two semantic versions component by component.
// Unparseable components are treated as 0.
func IsGreaterOrEqual(v1, v2 string) bool {
	v1Parts := strings.Split(normalize(v1), ".")
	v2Parts := strings.Split(normalize(v2), ".")

	for i := 0; i < semverComponents; i++ {
		if i >= len(v1Parts) || i >= len(v2Parts) {
			return false
		}

		v1Num := 0
		v2Num := 0
		if _, err := fmt.Sscanf(v1Parts[i], "%d", &v1Num); err != nil {
			v1Num = 0
		}
		if _, err := fmt.Sscanf(v2Parts[i], "%d", &v2Num); err != nil {
			v2Num = 0
		}

		if v1Num > v2Num {
			return true
		}
		if v1Num < v2Num {
			return false
		}
	}
	return true
}
