package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/Aleph-Alpha/vectorwire/v1/errs"
)

// Version is the (major, minor, patch) triple reported by a server.
// The zero value is 0.0.0, which is what servers that omit their version
// are treated as.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Parse reads a dotted version string. It is lenient the way servers are:
// "1.26.0", "v1.26", and "1.25.0-rc.1" are all accepted; pre-release and
// build suffixes are ignored for ordering. An empty string yields 0.0.0.
func Parse(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, nil
	}
	sv, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, errs.Input("version", "cannot parse %q: %v", s, err)
	}
	return Version{Major: int(sv.Major()), Minor: int(sv.Minor()), Patch: int(sv.Patch())}, nil
}

// MustParse is Parse for constants and tests. It panics on malformed input.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// New builds a Version from its parts.
func New(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// Compare returns -1, 0 or +1.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return cmpInt(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmpInt(v.Minor, o.Minor)
	default:
		return cmpInt(v.Patch, o.Patch)
	}
}

// IsAtLeast reports whether v >= major.minor.patch.
func (v Version) IsAtLeast(major, minor, patch int) bool {
	return v.Compare(New(major, minor, patch)) >= 0
}

// IsLowerThan reports whether v < major.minor.patch.
func (v Version) IsLowerThan(major, minor, patch int) bool {
	return !v.IsAtLeast(major, minor, patch)
}

// IsZero reports whether the version is unknown (0.0.0).
func (v Version) IsZero() bool {
	return v == Version{}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	return 1
}
