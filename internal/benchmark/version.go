package benchmark

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/frederickw082922/crosscheck/internal/model"
)

// ErrVersionFormat marks a version string outside the recognized shapes.
// Callers downgrade the affected comparison instead of treating it as a
// run failure.
var ErrVersionFormat = errors.New("unrecognized version format")

// revisionShape is the STIG revision form, e.g. "v1r2" or "V2R4".
var revisionShape = regexp.MustCompile(`^[vV]?(\d+)[rR](\d+)$`)

// NormalizeVersion parses a raw benchmark version into its comparable
// (major, minor) form. Three shapes are accepted: dotted with an optional
// leading v ("v1.2.0", "1.2.0"), and the STIG revision form ("v1r2").
// Components past minor are ignored on purpose: patch and revision numbers
// drift across the three source locations without being a defect.
func NormalizeVersion(raw string) (model.VersionTuple, error) {
	s := strings.TrimSpace(raw)
	if m := revisionShape.FindStringSubmatch(s); m != nil {
		major, _ := strconv.Atoi(m[1])
		minor, _ := strconv.Atoi(m[2])
		return model.VersionTuple{Major: major, Minor: minor}, nil
	}
	// The dotted shapes are plain semver-with-optional-v; a bare integer
	// is not a recognized version.
	if strings.Contains(s, ".") {
		if v, err := semver.NewVersion(s); err == nil {
			return model.VersionTuple{Major: int(v.Major()), Minor: int(v.Minor())}, nil
		}
	}
	return model.VersionTuple{}, fmt.Errorf("%w: %q", ErrVersionFormat, raw)
}
