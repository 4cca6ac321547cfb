package version

import (
	"fmt"
	"regexp"
	"strconv"
)

const VERSION = "v2.1.0"

// Version is the schema version stored in the config file.
type Version struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
}

// Unset marks a config that has never been written by hotmouse.
var Unset = Version{Major: -1, Minor: -1}

var versionRe = regexp.MustCompile(`^v?(-?\d+)\.(-?\d+)(?:\.\d+)?$`)

// Parse reads "major.minor", optionally prefixed with "v" and followed by a
// patch number.
func Parse(s string) (Version, error) {
	matches := versionRe.FindStringSubmatch(s)
	if len(matches) < 3 {
		return Version{}, fmt.Errorf("invalid version %q", s)
	}
	major, err := strconv.Atoi(matches[1])
	if err != nil {
		return Version{}, fmt.Errorf("invalid major version in %q: %w", s, err)
	}
	minor, err := strconv.Atoi(matches[2])
	if err != nil {
		return Version{}, fmt.Errorf("invalid minor version in %q: %w", s, err)
	}
	return Version{Major: major, Minor: minor}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Current returns the schema version of this build.
func Current() Version {
	return MustParse(VERSION)
}

func (v Version) IsUnset() bool {
	return v == Unset
}

func (v Version) Less(other Version) bool {
	return v.Major < other.Major || (v.Major == other.Major && v.Minor < other.Minor)
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}
