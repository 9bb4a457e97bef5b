package unityver

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is an engine build stamp such as "2019.4.31f1".
// Ordering only looks at (Major, Minor, Patch); Build keeps the suffix.
type Version struct {
	Major int
	Minor int
	Patch int
	Build string
}

// V builds a version from its numeric parts.
func V(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// Parse reads a version stamp. Missing components default to zero and the
// non-numeric tail of the last component is kept as Build ("f1", "p2").
func Parse(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, fmt.Errorf("unityver: empty version")
	}
	parts := strings.SplitN(s, ".", 3)
	var nums [3]int
	var build string
	for i, p := range parts {
		digits := leadingDigits(p)
		if digits == "" {
			return Version{}, fmt.Errorf("unityver: invalid version %q", s)
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return Version{}, fmt.Errorf("unityver: invalid version %q: %w", s, err)
		}
		nums[i] = n
		if rest := p[len(digits):]; rest != "" {
			if i != len(parts)-1 {
				return Version{}, fmt.Errorf("unityver: invalid version %q", s)
			}
			build = rest
		}
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2], Build: build}, nil
}

// MustParse is Parse for static tables.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func leadingDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}

// IsZero reports an unknown or stripped stamp ("0.0.0").
func (v Version) IsZero() bool {
	return v.Major == 0 && v.Minor == 0 && v.Patch == 0
}

// Compare returns -1, 0 or 1 comparing (Major, Minor, Patch) lexicographically.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return sign(v.Major - o.Major)
	case v.Minor != o.Minor:
		return sign(v.Minor - o.Minor)
	default:
		return sign(v.Patch - o.Patch)
	}
}

func sign(d int) int {
	if d < 0 {
		return -1
	}
	if d > 0 {
		return 1
	}
	return 0
}

func (v Version) Less(o Version) bool { return v.Compare(o) < 0 }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d%s", v.Major, v.Minor, v.Patch, v.Build)
}
