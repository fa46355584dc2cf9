package parser

// CompletionKind classifies what the token at the cursor is expected to be.
type CompletionKind int

const (
	CompletionNone CompletionKind = iota
	// A simple name in expression or statement position.
	CompletionNameReference
	// A name after "expr." or "Type.".
	CompletionMemberReference
	// A name after "expr::" or "Type::".
	CompletionMethodReferenceOperator
	// A name in a type position (declaration types, extends, casts).
	CompletionTypeReference
	// A type name right after "new".
	CompletionAllocationType
	// The first argument slot of "new Type(" with nothing typed.
	CompletionConstructorArguments
	// A name after "@".
	CompletionAnnotation
	// An attribute name inside annotation parentheses.
	CompletionAnnotationAttribute
	// A position where only keywords are legal.
	CompletionKeywordContext
	// A bare name at class member start, or a method name being declared.
	CompletionPotentialMethodDeclaration
	// The name of a variable being declared.
	CompletionVariableName
	// The label of a case in a switch.
	CompletionCaseLabel
	// A segment of an import declaration.
	CompletionImport
)

var completionKindNames = map[CompletionKind]string{
	CompletionNone:                       "NONE",
	CompletionNameReference:              "NAME_REFERENCE",
	CompletionMemberReference:            "MEMBER_REFERENCE",
	CompletionMethodReferenceOperator:    "METHOD_REFERENCE_OPERATOR",
	CompletionTypeReference:              "TYPE_REFERENCE",
	CompletionAllocationType:             "ALLOCATION_TYPE",
	CompletionConstructorArguments:       "CONSTRUCTOR_ARGUMENTS",
	CompletionAnnotation:                 "ANNOTATION",
	CompletionAnnotationAttribute:        "ANNOTATION_ATTRIBUTE",
	CompletionKeywordContext:             "KEYWORD_CONTEXT",
	CompletionPotentialMethodDeclaration: "POTENTIAL_METHOD_DECLARATION",
	CompletionVariableName:               "VARIABLE_NAME",
	CompletionCaseLabel:                  "CASE_LABEL",
	CompletionImport:                     "IMPORT",
}

func (k CompletionKind) String() string {
	if name, ok := completionKindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// Location tags where the completion token sits syntactically.
type Location int

const (
	LocationUnknown Location = iota
	LocationStatementStart
	LocationMemberStart
	LocationTopLevel
)

func (l Location) String() string {
	switch l {
	case LocationStatementStart:
		return "STATEMENT_START"
	case LocationMemberStart:
		return "MEMBER_START"
	case LocationTopLevel:
		return "TOP_LEVEL"
	}
	return "UNKNOWN"
}

// TypeFilter narrows type proposals in type positions.
type TypeFilter int

const (
	TypeFilterAny TypeFilter = iota
	TypeFilterClass
	TypeFilterInterface
	TypeFilterException
)

// CompletionNode is the node holding the token under the cursor.
type CompletionNode struct {
	Node     *Node
	Kind     CompletionKind
	Location Location
	Filter   TypeFilter
	// Prefix is the part of the token typed before the cursor.
	Prefix string
	// Token is the whole token under the cursor, possibly empty.
	Token string
	// Replace is the source range the proposal replaces.
	Replace Span
	// Qualifier is the receiver for member, method-reference and qualified
	// type completions.
	Qualifier *Node
}
