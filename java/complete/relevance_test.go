package complete

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/sai-complete/classpath"
	"github.com/dhamidi/sai-complete/java"
	"github.com/dhamidi/sai-complete/project"
)

func TestCamelMatch(t *testing.T) {
	tests := []struct {
		pattern, name string
		want          bool
	}{
		{"NPE", "NullPointerException", true},
		{"NuPoEx", "NullPointerException", true},
		{"NPEx", "NullPointerException", true},
		{"NE", "NullPointerException", true},
		{"PE", "NullPointerException", false},
		{"npe", "NullPointerException", false},
		{"N", "NullPointerException", false},
		{"AL", "ArrayList", true},
		{"ALi", "ArrayList", true},
		{"AX", "ArrayList", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, camelMatch(tt.pattern, tt.name), "%s ~ %s", tt.pattern, tt.name)
	}
}

func TestHumps(t *testing.T) {
	assert.Equal(t, []string{"Null", "Pointer", "Exception"}, humps("NullPointerException"))
	assert.Equal(t, []string{"to", "Upper", "Case"}, humps("toUpperCase"))
	assert.Equal(t, []string{"Utf", "8"}, humps("Utf8"))
	assert.Equal(t, []string{"URL", "Connection"}, words("URLConnection"))
}

func TestCaseRelevance(t *testing.T) {
	opts := project.DefaultOptions()
	r := &ranker{opts: opts, prefix: "len"}
	assert.Equal(t, relCase, r.caseRelevance("length"))
	assert.Equal(t, 0, r.caseRelevance("Length"))

	r.prefix = "length"
	assert.Equal(t, relCase+relExactName, r.caseRelevance("length"))
	assert.Equal(t, relExactName, r.caseRelevance("Length"))

	r.prefix = "NPE"
	assert.Equal(t, relCamelCase, r.caseRelevance("NullPointerException"))

	r.prefix = ""
	assert.Equal(t, relCase, r.caseRelevance("anything"))
}

func TestMatches(t *testing.T) {
	opts := project.DefaultOptions()
	r := &ranker{opts: opts, prefix: "str"}
	assert.True(t, r.matches("String"))
	assert.True(t, r.matches("strip"))
	assert.False(t, r.matches("toString"))

	opts.CaseSensitive = true
	r = &ranker{opts: opts, prefix: "str"}
	assert.False(t, r.matches("String"))

	opts.CamelCase = false
	r = &ranker{opts: opts, prefix: "NPE"}
	assert.False(t, r.matches("NullPointerException"))
}

func TestExpectedRelevance(t *testing.T) {
	r := &ranker{f: classpath.Builtin(), opts: project.DefaultOptions(), expected: []*java.Type{java.ClassType("java.lang.CharSequence")}}
	assert.Equal(t, relExactExpectedType, r.expectedRelevance(java.ClassType("java.lang.CharSequence")))
	assert.Equal(t, relExpectedType, r.expectedRelevance(java.String))
	assert.Equal(t, 0, r.expectedRelevance(java.Int))
	assert.Equal(t, 0, r.expectedRelevance(java.Unknown))
}

func TestQualification(t *testing.T) {
	r := &ranker{}
	assert.Equal(t, relUnqualified, r.qualification(false))
	assert.Equal(t, 0, r.qualification(true))
	r.qualified = true
	assert.Equal(t, 0, r.qualification(false))
	assert.Equal(t, relQualified, r.qualification(true))
}

func TestRestriction(t *testing.T) {
	r := &ranker{opts: project.Options{DeprecationCheck: true}}
	assert.Equal(t, relNonRestricted, r.restriction(false))
	assert.Equal(t, 0, r.restriction(true))
	r.opts.DeprecationCheck = false
	assert.Equal(t, relNonRestricted, r.restriction(true))
}

func TestRankOrdersAndDeduplicates(t *testing.T) {
	ps := rank([]*Proposal{
		{Kind: ProposalField, Name: "beta", Completion: "beta", Relevance: 40},
		{Kind: ProposalField, Name: "alpha", Completion: "alpha", Relevance: 40, Depth: 2},
		{Kind: ProposalField, Name: "alpha", Completion: "alpha", Relevance: 40, Depth: 1},
		{Kind: ProposalLocalVariable, Name: "gamma", Completion: "gamma", Relevance: 52},
	})
	assert.Equal(t, []string{"gamma", "alpha", "beta"}, names(ps))
	assert.Equal(t, 1, ps[1].Depth)
}

func TestTypeRelevanceTiers(t *testing.T) {
	f := classpath.Builtin()
	r := &ranker{f: f, opts: project.DefaultOptions(), expected: []*java.Type{java.ClassType("java.util.Collection")}}

	exact := r.typeRelevance(f.FindClass("java.util.Collection"))
	compatible := r.typeRelevance(f.FindClass("java.util.ArrayList"))
	samePackage := r.typeRelevance(f.FindClass("java.util.HashMap"))
	unrelated := r.typeRelevance(f.FindClass("java.lang.Thread"))

	assert.Equal(t, relExactExpectedType, exact)
	assert.Equal(t, relExpectedType, compatible)
	assert.Equal(t, relPackageExpectedType, samePackage)
	assert.Equal(t, 0, unrelated)
	assert.Greater(t, exact, compatible)
	assert.Greater(t, compatible, samePackage)
	assert.Greater(t, samePackage, unrelated)
}

func TestTypeRelevanceTakesBestExpectation(t *testing.T) {
	f := classpath.Builtin()
	r := &ranker{f: f, expected: []*java.Type{
		java.ClassType("java.util.Map"),
		java.ClassType("java.util.List"),
	}}
	assert.Equal(t, relExpectedType, r.typeRelevance(f.FindClass("java.util.ArrayList")))
	assert.Equal(t, relExactExpectedType, r.typeRelevance(f.FindClass("java.util.List")))
}

func TestVoidRelevance(t *testing.T) {
	r := &ranker{}
	assert.Equal(t, 0, r.voidRelevance(java.Void), "no expectation")

	r.expected = []*java.Type{java.Int}
	assert.Equal(t, relVoid, r.voidRelevance(java.Void))
	assert.Equal(t, 0, r.voidRelevance(java.Int))
}

func TestStaticRelevance(t *testing.T) {
	r := &ranker{}
	assert.Equal(t, 0, r.staticRelevance(false, false), "unqualified")

	r.qualified = true
	assert.Equal(t, relNonStatic, r.staticRelevance(false, false))
	assert.Equal(t, 0, r.staticRelevance(true, false), "static through an instance")
	assert.Equal(t, 0, r.staticRelevance(false, true), "instance through a type")
	assert.Equal(t, 0, r.staticRelevance(true, true))
}

func TestValueMethodsRankAboveVoid(t *testing.T) {
	ps := completeAt(t, testContext(), `class A {
    int cost() { return 0; }
    void close() {}
    void m() { int x = c|; }
}`)
	cost := find(ps, ProposalMethod, "cost")
	closeM := find(ps, ProposalMethod, "close")
	require.NotNil(t, cost, "proposals: %v", names(ps))
	require.NotNil(t, closeM, "proposals: %v", names(ps))
	assert.Greater(t, cost.Relevance, closeM.Relevance)
	assert.Less(t, proposalIndex(ps, cost), proposalIndex(ps, closeM))
}

func TestInstanceMembersRankAboveStaticThroughInstance(t *testing.T) {
	ps := completeAt(t, testContext(), `class A {
    static int total;
    int tally;
    void m(A a) { a.t| }
}`)
	tally := find(ps, ProposalField, "tally")
	total := find(ps, ProposalField, "total")
	require.NotNil(t, tally, "proposals: %v", names(ps))
	require.NotNil(t, total, "proposals: %v", names(ps))
	assert.Equal(t, relNonStatic, tally.Relevance-total.Relevance)
}

func proposalIndex(ps []*Proposal, p *Proposal) int {
	for i, q := range ps {
		if q == p {
			return i
		}
	}
	return -1
}

func TestRankBreaksTiesIgnoringCase(t *testing.T) {
	ps := rank([]*Proposal{
		{Kind: ProposalField, Name: "Beta", Completion: "Beta", Relevance: 40},
		{Kind: ProposalField, Name: "alpha", Completion: "alpha", Relevance: 40},
		{Kind: ProposalField, Name: "Alpha", Completion: "Alpha", Relevance: 40},
	})
	assert.Equal(t, []string{"Alpha", "alpha", "Beta"}, names(ps))
}

func TestRankOfNothingIsEmpty(t *testing.T) {
	ps := rank(nil)
	assert.NotNil(t, ps)
	assert.Empty(t, ps)
}
