package complete

import (
	"fmt"
	"sort"
	"strings"
)

type ProposalKind int

const (
	ProposalKeyword ProposalKind = iota
	ProposalLocalVariable
	ProposalField
	ProposalMethod
	ProposalType
	ProposalPackage
	ProposalMethodDeclaration
	ProposalVariableDeclaration
	ProposalMethodNameReference
	ProposalConstructorInvocation
	ProposalAnonymousClass
	ProposalAnnotationAttribute
)

var proposalKindNames = [...]string{
	ProposalKeyword:               "KEYWORD",
	ProposalLocalVariable:         "LOCAL_VARIABLE_REF",
	ProposalField:                 "FIELD_REF",
	ProposalMethod:                "METHOD_REF",
	ProposalType:                  "TYPE_REF",
	ProposalPackage:               "PACKAGE_REF",
	ProposalMethodDeclaration:     "METHOD_DECLARATION",
	ProposalVariableDeclaration:   "VARIABLE_DECLARATION",
	ProposalMethodNameReference:   "METHOD_NAME_REFERENCE",
	ProposalConstructorInvocation: "CONSTRUCTOR_INVOCATION",
	ProposalAnonymousClass:        "ANONYMOUS_CLASS_DECLARATION",
	ProposalAnnotationAttribute:   "ANNOTATION_ATTRIBUTE_REF",
}

func (k ProposalKind) String() string {
	if int(k) < len(proposalKindNames) {
		return proposalKindNames[k]
	}
	return "UNKNOWN"
}

// Range is a half-open byte range of the source.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Proposal is one completion candidate.
type Proposal struct {
	Kind ProposalKind `json:"kind"`
	// Name is the display name: the simple name of a member or type, the
	// full name of a package.
	Name string `json:"name"`
	// Completion is the text that replaces the Replace range.
	Completion string `json:"completion"`
	// DeclarationSignature is the signature of the declaring type, or the
	// package name for types.
	DeclarationSignature string `json:"declarationSignature,omitempty"`
	// Signature is the type signature of a variable or type, or the method
	// signature of a method.
	Signature      string   `json:"signature,omitempty"`
	ParameterNames []string `json:"parameterNames,omitempty"`
	Relevance      int      `json:"relevance"`
	Replace        Range    `json:"replace"`
	Token          Range    `json:"token"`
	// Required lists proposals applied together with this one, such as the
	// type that qualifies an enum constant.
	Required   []*Proposal `json:"required,omitempty"`
	Deprecated bool        `json:"deprecated,omitempty"`
	// Depth is the distance of the declaration from the position: scope
	// levels for locals, supertype levels for members.
	Depth int `json:"-"`
	// Element is the declaration the proposal refers to, when there is one.
	Element *Element `json:"-"`
}

func (k ProposalKind) hasNameField() bool {
	return k != ProposalType && k != ProposalPackage
}

func orNull(s string) string {
	if s == "" {
		return "null"
	}
	return s
}

func (p *Proposal) params() string {
	if len(p.ParameterNames) == 0 {
		return "null"
	}
	return "(" + strings.Join(p.ParameterNames, ", ") + ")"
}

// String renders p in the canonical one-line form
// name[KIND]{completion, declaringTypeSignature, typeSignature, name, parameterNames, relevance}.
func (p *Proposal) String() string {
	name := ""
	if p.Kind.hasNameField() {
		name = p.Name
	}
	return fmt.Sprintf("%s[%s]{%s, %s, %s, %s, %s, %d}",
		p.Name, p.Kind, p.Completion, orNull(p.DeclarationSignature), orNull(p.Signature),
		orNull(name), p.params(), p.Relevance)
}

// ExtendedString adds the replace range and the required proposals.
func (p *Proposal) ExtendedString() string {
	var sb strings.Builder
	p.writeExtended(&sb, 0)
	return sb.String()
}

func (p *Proposal) writeExtended(sb *strings.Builder, indent int) {
	name := ""
	if p.Kind.hasNameField() {
		name = p.Name
	}
	sb.WriteString(strings.Repeat("   ", indent))
	fmt.Fprintf(sb, "%s[%s]{%s, %s, %s, %s, %s, [%d, %d], %d}",
		p.Name, p.Kind, p.Completion, orNull(p.DeclarationSignature), orNull(p.Signature),
		orNull(name), p.params(), p.Replace.Start, p.Replace.End, p.Relevance)
	for _, r := range p.Required {
		sb.WriteByte('\n')
		r.writeExtended(sb, indent+1)
	}
}

// Format renders proposals one per line.
func Format(ps []*Proposal, extended bool) string {
	lines := make([]string, len(ps))
	for i, p := range ps {
		if extended {
			lines[i] = p.ExtendedString()
		} else {
			lines[i] = p.String()
		}
	}
	return strings.Join(lines, "\n")
}

func (p *Proposal) key() string {
	return p.Kind.String() + "\x00" + p.Name + "\x00" + p.Completion + "\x00" + p.DeclarationSignature + "\x00" + p.Signature
}

// rank orders proposals by relevance, then display name, then closeness
// of the declaration, and drops duplicates keeping the best ranked.
func rank(ps []*Proposal) []*Proposal {
	sort.SliceStable(ps, func(i, j int) bool {
		a, b := ps[i], ps[j]
		if a.Relevance != b.Relevance {
			return a.Relevance > b.Relevance
		}
		if la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name); la != lb {
			return la < lb
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Depth != b.Depth {
			return a.Depth < b.Depth
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Completion != b.Completion {
			return a.Completion < b.Completion
		}
		if a.DeclarationSignature != b.DeclarationSignature {
			return a.DeclarationSignature < b.DeclarationSignature
		}
		return a.Signature < b.Signature
	})
	seen := make(map[string]bool, len(ps))
	out := make([]*Proposal, 0, len(ps))
	for _, p := range ps {
		k := p.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return out
}
