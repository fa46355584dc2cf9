package complete

import (
	"strings"
	"unicode"

	"github.com/dhamidi/sai-complete/java"
	"github.com/dhamidi/sai-complete/project"
)

// Relevance weights. Scores are sums of these; only their relative order
// is meaningful to callers.
const (
	relDefault             = 30
	relResolved            = 1
	relInteresting         = 5
	relCase                = 10
	relCamelCase           = 5
	relExactName           = 4
	relVoid                = -5
	relExpectedType        = 20
	relExactExpectedType   = 30
	relPackageExpectedType = 15
	relInterface           = 20
	relClass               = 20
	relAnnotation          = 20
	relException           = 20
	relEnumConstant        = 5
	relAbstractMethod      = 20
	relNonStatic           = 11
	relUnqualified         = 3
	relQualified           = 2
	relNameFirstPrefix     = 6
	relNameFirstSuffix     = 4
	relNameSuffix          = 3
	relMethodOverride      = 3
	relNonRestricted       = 3
	relTrueOrFalse         = 1
	relConstructor         = 3
)

// ranker scores candidates against the context of one request. It holds
// no state beyond that context.
type ranker struct {
	f        java.ClassFinder
	opts     project.Options
	prefix   string
	expected []*java.Type
	// qualified is set inside a qualified reference such as expr.name.
	qualified bool
}

func (r *ranker) base() int {
	return relDefault + relResolved + relInteresting
}

// matches reports whether a candidate name is kept for the typed prefix.
func (r *ranker) matches(name string) bool {
	p := r.prefix
	if p == "" {
		return true
	}
	if r.opts.CaseSensitive {
		if strings.HasPrefix(name, p) {
			return true
		}
	} else if hasPrefixFold(name, p) {
		return true
	}
	return r.opts.CamelCase && camelMatch(p, name)
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func (r *ranker) caseRelevance(name string) int {
	p := r.prefix
	switch {
	case p == "":
		return relCase
	case name == p:
		return relCase + relExactName
	case strings.EqualFold(name, p):
		return relExactName
	case strings.HasPrefix(name, p):
		return relCase
	case r.opts.CamelCase && camelMatch(p, name):
		return relCamelCase
	}
	return 0
}

// camelMatch reports whether each hump of pattern starts the corresponding
// hump of name, in order, the first humps aligned: "NPE" and "NuPoEx"
// match NullPointerException.
func camelMatch(pattern, name string) bool {
	ph, nh := humps(pattern), humps(name)
	if len(ph) < 2 || len(nh) == 0 || !strings.HasPrefix(nh[0], ph[0]) {
		return false
	}
	j := 1
	for _, h := range ph[1:] {
		for j < len(nh) && !strings.HasPrefix(nh[j], h) {
			j++
		}
		if j == len(nh) {
			return false
		}
		j++
	}
	return true
}

func humps(s string) []string {
	var out []string
	start := 0
	for i, r := range s {
		if i > start && (unicode.IsUpper(r) || unicode.IsDigit(r) && !unicode.IsDigit(rune(s[i-1]))) {
			out = append(out, s[start:i])
			start = i
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

// expectedRelevance grades a value type against the expected types,
// taking the best grade over all of them.
func (r *ranker) expectedRelevance(t *java.Type) int {
	if t.IsUnknown() || t.IsVoid() {
		return 0
	}
	best := 0
	for _, e := range r.expected {
		switch {
		case sameType(t, e):
			return relExactExpectedType
		case java.IsAssignable(r.f, t, e):
			best = relExpectedType
		}
	}
	return best
}

// typeRelevance grades a proposed class against the expected types.
func (r *ranker) typeRelevance(c *java.ClassModel) int {
	best := 0
	for _, e := range r.expected {
		e = e.Leaf()
		if !e.IsClass() {
			continue
		}
		switch {
		case c.Name == e.Name:
			return relExactExpectedType
		case java.IsSubclass(r.f, c.Name, e.Name):
			best = max(best, relExpectedType)
		case c.Package == packageOf(e.Name):
			best = max(best, relPackageExpectedType)
		}
	}
	return best
}

func packageOf(binary string) string {
	pkg, _ := java.SplitName(binary)
	return pkg
}

func sameType(t, e *java.Type) bool {
	if t.Equal(e) {
		return true
	}
	return t.IsClass() && e.IsClass() && t.Name == e.Name && (len(t.Args) == 0 || len(e.Args) == 0)
}

func (r *ranker) voidRelevance(ret *java.Type) int {
	if len(r.expected) > 0 && ret.IsVoid() {
		return relVoid
	}
	return 0
}

// qualification scores how a candidate is reached: unqualified names
// score above names that need a qualifier in an unqualified position.
func (r *ranker) qualification(prefixRequired bool) int {
	switch {
	case !prefixRequired && !r.qualified:
		return relUnqualified
	case prefixRequired && r.qualified:
		return relQualified
	}
	return 0
}

func (r *ranker) restriction(deprecated bool) int {
	if deprecated && r.opts.DeprecationCheck {
		return 0
	}
	return relNonRestricted
}

// staticRelevance rewards instance members reached through an instance
// receiver.
func (r *ranker) staticRelevance(static, receiverIsType bool) int {
	if r.qualified && !static && !receiverIsType {
		return relNonStatic
	}
	return 0
}

func (r *ranker) expectsEnum(c *java.ClassModel) bool {
	for _, e := range r.expected {
		if e.Is(c.Name) {
			return true
		}
	}
	return false
}

func (r *ranker) expectsBoolean() bool {
	for _, e := range r.expected {
		if isBoolean(e) {
			return true
		}
	}
	return false
}
