// Package parser provides an error-tolerant parser for Java source code that
// is built for code completion.
//
// # Overview
//
// Parse never fails. Missing delimiters, dangling operators and unfinished
// declarations produce a tree in which absent parts are synthetic
// placeholders, so callers can still find the enclosing method, the lambda
// being written or the receiver of a member access.
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │   (tree)    │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                           │                   │
//	                           ▼                   ▼
//	                    ┌─────────────┐     ┌─────────────┐
//	                    │ Completion  │     │  Synthetic  │
//	                    │   token     │     │  recovery   │
//	                    └─────────────┘     └─────────────┘
//
// # Completion Token
//
// When a cursor is given with WithCursor, the identifier or keyword touching
// the cursor is turned into the completion token. If the cursor sits between
// tokens, a zero-width identifier is inserted there instead. The parser
// consumes the token like any other identifier and records the node that
// holds it in Result.Completion together with what the position means:
//
//	foo.ba|          MEMBER_REFERENCE, qualifier foo
//	String::toUp|    METHOD_REFERENCE_OPERATOR, qualifier String
//	new Arr|         ALLOCATION_TYPE
//	new Foo(|        CONSTRUCTOR_ARGUMENTS
//	@Depr|           ANNOTATION
//	case SE|:        CASE_LABEL
//	pu|  (in class)  POTENTIAL_METHOD_DECLARATION, MEMBER_START
//	sys| (statement) NAME_REFERENCE, STATEMENT_START
//
// A cursor inside a comment, string, character or number literal plants no
// token and Result.InComment is set.
//
// # Node Layouts
//
// Each NodeKind has a fixed child layout documented next to its constant.
// Optional parts that are absent are KindEmpty nodes, so positional access
// with Node.Child stays valid on broken input:
//
//	MethodDecl [Modifiers, TypeParameters|Empty, Type, Identifier,
//	            Parameters, ThrowsList|Empty, Block|Empty]
//
// # Error Recovery
//
//  1. Blocks: an unclosed block ends at EOF or at public, private or
//     protected, where only a class member can start.
//  2. Argument lists: an empty slot such as "f(a, , b)" keeps a synthetic
//     argument so indexes stay aligned; an unclosed list ends where a
//     statement keyword begins.
//  3. Lambdas: parameters are recorded even when the body is missing.
//  4. Loops: every loop consumes at least one token per iteration, and a
//     global step budget and recursion depth bound the work on any input.
//
// # Thread Safety
//
// Parse keeps all state in a Parser created per call and is safe for
// concurrent use.
//
// # Example Usage
//
//	src := []byte("class A { void m() { String s; s. } }")
//	res := parser.Parse(src, parser.WithCursor(33))
//	fmt.Println(res.Completion.Kind) // MEMBER_REFERENCE
package parser
