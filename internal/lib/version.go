package lib

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Version is a parsed semantic version tag.
type Version struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string
	Raw        string
}

var versionRegex = regexp.MustCompile(`^v?(\d+)(?:\.(\d+))?(?:\.(\d+))?(?:-([0-9A-Za-z\-.]+))?$`)

// ParseVersion parses a version tag, with or without the "v" prefix.
// Missing minor or patch components default to zero.
func ParseVersion(s string) (Version, error) {
	m := versionRegex.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("invalid version: %q", s)
	}
	v := Version{Raw: s}
	v.Major, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		v.Minor, _ = strconv.Atoi(m[2])
	}
	if m[3] != "" {
		v.Patch, _ = strconv.Atoi(m[3])
	}
	v.Prerelease = m[4]
	return v, nil
}

// String returns the canonical form, always with the v prefix.
func (v Version) String() string {
	s := fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	return s
}

// Compare orders versions: -1, 0 or 1. A release is greater than any
// of its prereleases.
func (v Version) Compare(o Version) int {
	if c := cmpInt(v.Major, o.Major); c != 0 {
		return c
	}
	if c := cmpInt(v.Minor, o.Minor); c != 0 {
		return c
	}
	if c := cmpInt(v.Patch, o.Patch); c != 0 {
		return c
	}
	switch {
	case v.Prerelease == o.Prerelease:
		return 0
	case v.Prerelease == "":
		return 1
	case o.Prerelease == "":
		return -1
	}
	return cmpPrerelease(v.Prerelease, o.Prerelease)
}

// Less reports v < o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// SortVersions sorts ascending, oldest first.
func SortVersions(vs []Version) {
	sort.Slice(vs, func(i, j int) bool { return vs[i].Less(vs[j]) })
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// cmpPrerelease compares dot-separated prerelease identifiers: numeric
// identifiers compare numerically and rank below alphanumeric ones; a
// longer identifier list wins a tie.
func cmpPrerelease(a, b string) int {
	pa, pb := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(pa) && i < len(pb); i++ {
		na, aNum := atoi(pa[i])
		nb, bNum := atoi(pb[i])
		switch {
		case aNum && bNum:
			if c := cmpInt(na, nb); c != 0 {
				return c
			}
		case aNum:
			return -1
		case bNum:
			return 1
		default:
			if c := strings.Compare(pa[i], pb[i]); c != 0 {
				return c
			}
		}
	}
	return cmpInt(len(pa), len(pb))
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}
