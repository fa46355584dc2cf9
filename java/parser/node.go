package parser

import (
	"strconv"
	"strings"
)

type NodeKind int

// Child layouts are fixed per kind. Optional parts that are absent are
// represented by a synthetic KindEmpty node so positional access stays valid.
const (
	KindError NodeKind = iota
	KindEmpty

	// [PackageDecl|Empty, ImportDecl..., type declarations...]
	KindCompilationUnit
	// [QualifiedName]
	KindPackageDecl
	// [QualifiedName]; Token is "static" for static imports, Flags has NodeWildcard for .*
	KindImportDecl

	// Type declarations: [Modifiers, Identifier, TypeParameters|Empty,
	// ExtendsClause|Empty, ImplementsClause|Empty, ClassBody].
	// RecordDecl carries its header Parameters in place of ExtendsClause.
	KindClassDecl
	KindInterfaceDecl
	KindEnumDecl
	KindRecordDecl
	KindAnnotationDecl
	// [member...]
	KindClassBody
	// [Modifiers, Identifier, Arguments|Empty, ClassBody|Empty]
	KindEnumConstant
	// [types...]
	KindExtendsClause
	KindImplementsClause

	// [Modifiers, TypeParameters|Empty, Type, Identifier, Parameters, ThrowsList|Empty, Block|Empty]
	KindMethodDecl
	// [Modifiers, TypeParameters|Empty, Identifier, Parameters, ThrowsList|Empty, Block]
	KindConstructorDecl
	// [Modifiers, Type, VarDeclarator...]
	KindFieldDecl
	// [Modifiers, Block]
	KindInitializer
	// [Identifier, initializer|Empty]; Dims holds trailing [] pairs
	KindVarDeclarator

	// [Annotation...]; Flags carries the decoded modifier bits
	KindModifiers
	// [TypeParameter...]
	KindTypeParameters
	// [Identifier, bound types...]
	KindTypeParameter
	// [Type|Wildcard...]
	KindTypeArguments
	// Token is the primitive keyword, void or var
	KindPrimitiveType
	// [Identifier, TypeArguments|Empty, Identifier, TypeArguments|Empty, ...]
	KindClassType
	// [Type]; Dims holds the dimension count
	KindArrayType
	// [bound|Empty]; Token is extends/super when bounded
	KindWildcard
	// [types...] for casts and catch unions
	KindIntersectionType
	KindUnionType
	// [QualifiedName, Arguments|ArrayInit|expression|Empty]
	KindAnnotation

	// [Parameter...]
	KindParameters
	// [Modifiers, Type|Empty, Identifier]; Type is Empty for inferred lambda
	// parameters. Flags has NodeVarargs
	KindParameter
	// [types...]
	KindThrowsList

	// Statements
	KindBlock
	KindEmptyStmt
	// [expression]
	KindExprStmt
	// [cond, then, else|Empty]
	KindIfStmt
	// [ForInit, cond|Empty, ForUpdate, body]
	KindForStmt
	KindForInit
	KindForUpdate
	// [Parameter, iterable, body]
	KindEnhancedForStmt
	// [cond, body]
	KindWhileStmt
	// [body, cond]
	KindDoStmt
	// [selector, SwitchCase...]
	KindSwitchStmt
	// [SwitchLabel..., statements...]; Flags has NodeArrow for arrow cases
	KindSwitchCase
	// [expressions...]; Token is case or default
	KindSwitchLabel
	// [expression|Empty]
	KindReturnStmt
	// [Identifier|Empty]
	KindBreakStmt
	KindContinueStmt
	// [expression]
	KindThrowStmt
	// [Resources|Empty, Block, CatchClause..., FinallyClause|Empty]
	KindTryStmt
	// [LocalVarDecl|expression...]
	KindResources
	// [Parameter, Block]
	KindCatchClause
	// [Block]
	KindFinallyClause
	// [lock, Block]
	KindSynchronizedStmt
	// [cond, message|Empty]
	KindAssertStmt
	// [Identifier, statement]
	KindLabeledStmt
	// [Modifiers, Type, VarDeclarator...]
	KindLocalVarDecl
	// [type declaration]
	KindLocalClassDecl
	// [expression]
	KindYieldStmt

	// Expressions

	// [lhs, rhs]; Token is the operator
	KindAssignExpr
	// [cond, then, else]
	KindTernaryExpr
	// [lhs, rhs]; Token is the operator
	KindBinaryExpr
	// [operand]; Token is the operator
	KindUnaryExpr
	KindPostfixExpr
	// [Type|IntersectionType, operand]
	KindCastExpr
	// [operand, Type, Identifier|Empty, Parameter...]; the trailing parameters
	// are record pattern components
	KindInstanceofExpr
	// [receiver|Empty, Identifier, Arguments]
	KindCallExpr
	// [receiver, Identifier]; the identifier token is "new" for constructor references
	KindMethodRef
	// [receiver, Identifier]
	KindFieldAccess
	// [array, index]
	KindArrayAccess
	// [outer|Empty, ClassType, Arguments, ClassBody|Empty]
	KindNewExpr
	// [Type, dimension expressions..., ArrayInit|Empty]
	KindNewArrayExpr
	// [elements...]
	KindArrayInit
	// [Parameters, body]
	KindLambdaExpr
	// [expression]
	KindParenExpr
	KindLiteral
	// Token is the name
	KindIdentifier
	// [Identifier...]
	KindQualifiedName
	// [qualifier type] when qualified as in Outer.this
	KindThis
	KindSuper
	// [Type]
	KindClassLiteral
	// [selector, SwitchCase...]
	KindSwitchExpr
	// [expressions...]
	KindArguments
)

var nodeKindNames = map[NodeKind]string{
	KindError:            "Error",
	KindEmpty:            "Empty",
	KindCompilationUnit:  "CompilationUnit",
	KindPackageDecl:      "PackageDecl",
	KindImportDecl:       "ImportDecl",
	KindClassDecl:        "ClassDecl",
	KindInterfaceDecl:    "InterfaceDecl",
	KindEnumDecl:         "EnumDecl",
	KindRecordDecl:       "RecordDecl",
	KindAnnotationDecl:   "AnnotationDecl",
	KindClassBody:        "ClassBody",
	KindEnumConstant:     "EnumConstant",
	KindExtendsClause:    "ExtendsClause",
	KindImplementsClause: "ImplementsClause",
	KindMethodDecl:       "MethodDecl",
	KindConstructorDecl:  "ConstructorDecl",
	KindFieldDecl:        "FieldDecl",
	KindInitializer:      "Initializer",
	KindVarDeclarator:    "VarDeclarator",
	KindModifiers:        "Modifiers",
	KindTypeParameters:   "TypeParameters",
	KindTypeParameter:    "TypeParameter",
	KindTypeArguments:    "TypeArguments",
	KindPrimitiveType:    "PrimitiveType",
	KindClassType:        "ClassType",
	KindArrayType:        "ArrayType",
	KindWildcard:         "Wildcard",
	KindIntersectionType: "IntersectionType",
	KindUnionType:        "UnionType",
	KindAnnotation:       "Annotation",
	KindParameters:       "Parameters",
	KindParameter:        "Parameter",
	KindThrowsList:       "ThrowsList",
	KindBlock:            "Block",
	KindEmptyStmt:        "EmptyStmt",
	KindExprStmt:         "ExprStmt",
	KindIfStmt:           "IfStmt",
	KindForStmt:          "ForStmt",
	KindForInit:          "ForInit",
	KindForUpdate:        "ForUpdate",
	KindEnhancedForStmt:  "EnhancedForStmt",
	KindWhileStmt:        "WhileStmt",
	KindDoStmt:           "DoStmt",
	KindSwitchStmt:       "SwitchStmt",
	KindSwitchCase:       "SwitchCase",
	KindSwitchLabel:      "SwitchLabel",
	KindReturnStmt:       "ReturnStmt",
	KindBreakStmt:        "BreakStmt",
	KindContinueStmt:     "ContinueStmt",
	KindThrowStmt:        "ThrowStmt",
	KindTryStmt:          "TryStmt",
	KindResources:        "Resources",
	KindCatchClause:      "CatchClause",
	KindFinallyClause:    "FinallyClause",
	KindSynchronizedStmt: "SynchronizedStmt",
	KindAssertStmt:       "AssertStmt",
	KindLabeledStmt:      "LabeledStmt",
	KindLocalVarDecl:     "LocalVarDecl",
	KindLocalClassDecl:   "LocalClassDecl",
	KindYieldStmt:        "YieldStmt",
	KindAssignExpr:       "AssignExpr",
	KindTernaryExpr:      "TernaryExpr",
	KindBinaryExpr:       "BinaryExpr",
	KindUnaryExpr:        "UnaryExpr",
	KindPostfixExpr:      "PostfixExpr",
	KindCastExpr:         "CastExpr",
	KindInstanceofExpr:   "InstanceofExpr",
	KindCallExpr:         "CallExpr",
	KindMethodRef:        "MethodRef",
	KindFieldAccess:      "FieldAccess",
	KindArrayAccess:      "ArrayAccess",
	KindNewExpr:          "NewExpr",
	KindNewArrayExpr:     "NewArrayExpr",
	KindArrayInit:        "ArrayInit",
	KindLambdaExpr:       "LambdaExpr",
	KindParenExpr:        "ParenExpr",
	KindLiteral:          "Literal",
	KindIdentifier:       "Identifier",
	KindQualifiedName:    "QualifiedName",
	KindThis:             "This",
	KindSuper:            "Super",
	KindClassLiteral:     "ClassLiteral",
	KindSwitchExpr:       "SwitchExpr",
	KindArguments:        "Arguments",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsTypeDecl reports whether k declares a class-like type.
func (k NodeKind) IsTypeDecl() bool {
	switch k {
	case KindClassDecl, KindInterfaceDecl, KindEnumDecl, KindRecordDecl, KindAnnotationDecl:
		return true
	}
	return false
}

// IsType reports whether k is a syntactic type.
func (k NodeKind) IsType() bool {
	switch k {
	case KindPrimitiveType, KindClassType, KindArrayType, KindWildcard,
		KindIntersectionType, KindUnionType:
		return true
	}
	return false
}

type NodeFlags uint32

const (
	NodeWildcard NodeFlags = 1 << iota
	NodeVarargs
	NodeArrow
	// NodeUnclosed marks a construct whose closing delimiter was synthesized.
	NodeUnclosed
	NodeStatic
	NodeFinal
	NodeAbstract
	NodePublic
	NodePrivate
	NodeProtected
	NodeDefault
	NodeSynchronized
	NodeNative
	NodeTransient
	NodeVolatile
	NodeStrictfp
	NodeSealed
	NodeNonSealed
	NodeDeprecated
)

type Error struct {
	Message string
	Got     *Token
}

type Node struct {
	Kind      NodeKind
	Span      Span
	Children  []*Node
	Token     *Token
	Error     *Error
	Flags     NodeFlags
	Dims      int
	Synthetic bool
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

// Child returns the i-th child or nil when the index is out of range or the
// child is a placeholder.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	c := n.Children[i]
	if c.Kind == KindEmpty {
		return nil
	}
	return c
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

func (n *Node) Has(flag NodeFlags) bool {
	return n != nil && n.Flags&flag != 0
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) TokenLiteral() string {
	if n != nil && n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// Name returns the declared or referenced simple name for nodes that carry
// one.
func (n *Node) Name() string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindIdentifier:
		return n.TokenLiteral()
	case KindQualifiedName:
		return QualifiedName(n)
	}
	return n.NameNode().TokenLiteral()
}

// NameNode returns the identifier node holding the declared name.
func (n *Node) NameNode() *Node {
	if n == nil {
		return nil
	}
	var c *Node
	switch n.Kind {
	case KindVarDeclarator, KindTypeParameter:
		c = n.Child(0)
	case KindMethodDecl:
		c = n.Child(3)
	case KindConstructorDecl:
		c = n.Child(2)
	case KindParameter:
		c = n.Child(2)
	case KindEnumConstant, KindCallExpr, KindFieldAccess, KindMethodRef:
		c = n.Child(1)
	default:
		if n.Kind.IsTypeDecl() {
			c = n.Child(1)
		}
	}
	if c != nil && c.Kind == KindIdentifier {
		return c
	}
	return nil
}

// QualifiedName joins the identifiers of a QualifiedName, ClassType,
// FieldAccess chain or Identifier with dots.
func QualifiedName(n *Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindIdentifier:
		return n.TokenLiteral()
	case KindQualifiedName, KindClassType:
		var parts []string
		for _, c := range n.Children {
			if c.Kind == KindIdentifier {
				parts = append(parts, c.TokenLiteral())
			}
		}
		return strings.Join(parts, ".")
	case KindFieldAccess:
		left := QualifiedName(n.Child(0))
		if left == "" {
			return ""
		}
		return left + "." + n.Child(1).TokenLiteral()
	}
	return ""
}

// Walk visits n and its descendants depth-first, stopping descent when fn
// returns false.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// PathTo returns the chain of nodes from root down to target, both
// inclusive, or nil when target is not in the tree.
func PathTo(root, target *Node) []*Node {
	if root == nil || target == nil {
		return nil
	}
	var path []*Node
	var search func(n *Node) bool
	search = func(n *Node) bool {
		path = append(path, n)
		if n == target {
			return true
		}
		for _, c := range n.Children {
			if search(c) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}
	if search(root) {
		return path
	}
	return nil
}

func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb, 0, false)
	return sb.String()
}

func (n *Node) StringWithPositions() string {
	var sb strings.Builder
	n.write(&sb, 0, true)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder, indent int, showPositions bool) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Kind.String())
	if showPositions {
		sb.WriteString(" [" + strconv.Itoa(n.Span.Start.Offset) + "-" + strconv.Itoa(n.Span.End.Offset) + "]")
	}
	if n.Token != nil && n.Token.Literal != "" {
		sb.WriteString(" " + n.Token.Literal)
	}
	if n.Synthetic {
		sb.WriteString(" (synthetic)")
	}
	if n.Error != nil {
		sb.WriteString(" ERROR: " + n.Error.Message)
	}
	sb.WriteString("\n")
	for _, child := range n.Children {
		child.write(sb, indent+1, showPositions)
	}
}

// IdentifierAt returns the path from root to the innermost node containing
// offset, preferring identifiers written in the source over synthetic ones.
// The last element is the node found.
func IdentifierAt(root *Node, offset int) []*Node {
	if root == nil || !root.Span.Contains(offset) {
		return nil
	}
	path := []*Node{root}
	n := root
	for {
		var next *Node
		for _, c := range n.Children {
			if c.Synthetic || !c.Span.Contains(offset) {
				continue
			}
			next = c
			if c.Kind == KindIdentifier || c.Span.Start.Offset < offset {
				break
			}
		}
		if next == nil {
			return path
		}
		path = append(path, next)
		n = next
	}
}
