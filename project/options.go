package project

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Feature is a language feature whose availability depends on the
// compliance level.
type Feature string

const (
	FeatureVar              Feature = "var"
	FeatureSwitchExpression Feature = "switch-expression"
	FeatureTextBlock        Feature = "text-block"
	FeatureRecord           Feature = "record"
	FeaturePatternMatching  Feature = "instanceof-pattern"
	FeatureSealed           Feature = "sealed"
	FeatureSwitchPattern    Feature = "switch-pattern"
)

var featureConstraints = map[Feature]*semver.Constraints{
	FeatureVar:              mustConstraint(">= 10"),
	FeatureSwitchExpression: mustConstraint(">= 14"),
	FeatureTextBlock:        mustConstraint(">= 15"),
	FeatureRecord:           mustConstraint(">= 16"),
	FeaturePatternMatching:  mustConstraint(">= 16"),
	FeatureSealed:           mustConstraint(">= 17"),
	FeatureSwitchPattern:    mustConstraint(">= 21"),
}

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

// DefaultCompliance is the language level assumed when none is configured.
const DefaultCompliance = "21"

// Options tune a completion request.
type Options struct {
	// Compliance is the Java language level, e.g. 8, 17 or 21.
	Compliance *semver.Version
	// CaseSensitive drops proposals whose name does not match the typed
	// prefix case-sensitively.
	CaseSensitive bool
	// CamelCase lets "NPE" match NullPointerException.
	CamelCase bool
	// DeprecationCheck withholds the non-restricted bonus from deprecated
	// proposals.
	DeprecationCheck bool
	// ExtendedContext adds replace ranges and required proposals to the
	// rendered output.
	ExtendedContext bool
}

func DefaultOptions() Options {
	v, _ := ParseCompliance(DefaultCompliance)
	return Options{
		Compliance:       v,
		CamelCase:        true,
		DeprecationCheck: true,
	}
}

// ParseCompliance parses a Java version such as "1.8", "11" or "17.0.2".
// Legacy 1.x versions are normalized to x.
func ParseCompliance(s string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("compliance level %q: %w", s, err)
	}
	if v.Major() == 1 && v.Minor() > 0 {
		v = semver.New(v.Minor(), 0, 0, "", "")
	}
	return v, nil
}

// Supports reports whether f is available at the configured compliance
// level. A missing level means the latest.
func (o Options) Supports(f Feature) bool {
	c, ok := featureConstraints[f]
	if !ok {
		return false
	}
	if o.Compliance == nil {
		return true
	}
	return c.Check(o.Compliance)
}

// ComplianceString renders the compliance level the way javac accepts it.
func (o Options) ComplianceString() string {
	if o.Compliance == nil {
		return DefaultCompliance
	}
	return fmt.Sprint(o.Compliance.Major())
}
