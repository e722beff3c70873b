// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/redfishdoc

package redfishdoc

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
)

// Version is a Redfish schema version (major.minor.errata).
type Version struct {
	Major  uint64
	Minor  uint64
	Errata uint64
}

// refVersionPattern captures the version part of "Name.vX_Y_Z.json" locators.
var refVersionPattern = regexp.MustCompile(`^.+\.v([^.]+)\.json.*$`)

// ParseVersion parses "1.2.0", "1_2_0", "v1_2" and similar strings.
// Missing trailing components default to zero.
func ParseVersion(text string) (Version, error) {
	normalized := strings.TrimSpace(text)
	normalized = strings.TrimPrefix(strings.TrimPrefix(normalized, "v"), "V")
	normalized = strings.ReplaceAll(normalized, "_", ".")
	if normalized == "" {
		return Version{}, errors.Wrapf(ErrInvalidVersion, "%q", text)
	}

	parsed, err := semver.NewVersion(normalized)
	if err != nil {
		return Version{}, errors.Wrapf(ErrInvalidVersion, "%q: %v", text, err)
	}

	return Version{
		Major:  parsed.Major(),
		Minor:  parsed.Minor(),
		Errata: parsed.Patch(),
	}, nil
}

// Compare returns -1, 0 or +1 comparing v against other component-wise.
func (v Version) Compare(other Version) int {
	return v.semver().Compare(other.semver())
}

// String renders version with dot separators.
func (v Version) String() string {
	return strconv.FormatUint(v.Major, 10) + "." +
		strconv.FormatUint(v.Minor, 10) + "." +
		strconv.FormatUint(v.Errata, 10)
}

// Underscored renders version the way it appears in schema file names (1_2_0).
func (v Version) Underscored() string {
	return strings.ReplaceAll(v.String(), ".", "_")
}

// Truncate renders the first parts components of the version (1 to 3).
func (v Version) Truncate(parts int) string {
	segments := strings.Split(v.String(), ".")
	if parts < 1 {
		parts = 1
	}

	if parts > len(segments) {
		parts = len(segments)
	}

	return strings.Join(segments[:parts], ".")
}

func (v Version) semver() *semver.Version {
	return semver.New(v.Major, v.Minor, v.Errata, "", "")
}

// CompareVersions compares two version strings regardless of separator style.
// Unparseable input compares as 0.0.0.
func CompareVersions(a, b string) int {
	left, _ := ParseVersion(a)
	right, _ := ParseVersion(b)
	return left.Compare(right)
}

// RefVersion extracts the dotted version from a versioned locator such as
// "Thermal.v1_2_0.json#/definitions/Fan". Returns empty string for unversioned refs.
func RefVersion(ref string) string {
	match := refVersionPattern.FindStringSubmatch(ref)
	if match == nil {
		return ""
	}

	return strings.ReplaceAll(match[1], "_", ".")
}

// TruncateVersion truncates a dotted or underscored version string to parts components.
func TruncateVersion(text string, parts int) string {
	version, err := ParseVersion(text)
	if err != nil {
		return text
	}

	return version.Truncate(parts)
}
