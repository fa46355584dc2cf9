package parser

import (
	"testing"
)

func TestLexer(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"", []TokenKind{TokenEOF}},
		{"class", []TokenKind{TokenClass, TokenEOF}},
		{"public class Main {}", []TokenKind{TokenPublic, TokenClass, TokenIdent, TokenLBrace, TokenRBrace, TokenEOF}},
		{"123", []TokenKind{TokenIntLiteral, TokenEOF}},
		{"0x1F", []TokenKind{TokenIntLiteral, TokenEOF}},
		{"10L", []TokenKind{TokenIntLiteral, TokenEOF}},
		{"3.14", []TokenKind{TokenFloatLiteral, TokenEOF}},
		{".5f", []TokenKind{TokenFloatLiteral, TokenEOF}},
		{"1e10", []TokenKind{TokenFloatLiteral, TokenEOF}},
		{"\"hello\"", []TokenKind{TokenStringLiteral, TokenEOF}},
		{"'a'", []TokenKind{TokenCharLiteral, TokenEOF}},
		{"// comment\nclass", []TokenKind{TokenClass, TokenEOF}},
		{"/* block */ class", []TokenKind{TokenClass, TokenEOF}},
		{"+ - * / %", []TokenKind{TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenPercent, TokenEOF}},
		{"== != < <= > >=", []TokenKind{TokenEQ, TokenNE, TokenLT, TokenLE, TokenGT, TokenGE, TokenEOF}},
		{"&& || !", []TokenKind{TokenAnd, TokenOr, TokenNot, TokenEOF}},
		{"<< >> >>>", []TokenKind{TokenShl, TokenShr, TokenUShr, TokenEOF}},
		{">>>= >>= <<=", []TokenKind{TokenUShrAssign, TokenShrAssign, TokenShlAssign, TokenEOF}},
		{"++ --", []TokenKind{TokenIncrement, TokenDecrement, TokenEOF}},
		{"->", []TokenKind{TokenArrow, TokenEOF}},
		{"::", []TokenKind{TokenColonColon, TokenEOF}},
		{"...", []TokenKind{TokenEllipsis, TokenEOF}},
		{"@", []TokenKind{TokenAt, TokenEOF}},
		{"\"\"\"\nHello world\"\"\"", []TokenKind{TokenTextBlock, TokenEOF}},
		{"var yield record", []TokenKind{TokenIdent, TokenIdent, TokenIdent, TokenEOF}},
		{"#", []TokenKind{TokenError, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, _ := Tokenize([]byte(tt.input))
			if len(tokens) != len(tt.expected) {
				t.Fatalf("got %d tokens, want %d", len(tokens), len(tt.expected))
			}
			for i := range tokens {
				if tokens[i].Kind != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, tokens[i].Kind, tt.expected[i])
				}
			}
		})
	}
}

func TestLexerKeywords(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"class", TokenClass},
		{"public", TokenPublic},
		{"static", TokenStatic},
		{"interface", TokenInterface},
		{"extends", TokenExtends},
		{"void", TokenVoid},
		{"int", TokenInt},
		{"instanceof", TokenInstanceof},
		{"return", TokenReturn},
		{"new", TokenNew},
		{"this", TokenThis},
		{"true", TokenTrue},
		{"null", TokenNull},
		{"foo", TokenIdent},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := NewLexer([]byte(tt.input)).NextToken()
			if tok.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Kind != TokenIdent && tok.Kind.String() != tt.input {
				t.Errorf("String() = %q, want %q", tok.Kind.String(), tt.input)
			}
		})
	}
}

func TestLexerPositions(t *testing.T) {
	tokens, _ := Tokenize([]byte("a\n  bb"))
	if len(tokens) != 3 {
		t.Fatalf("got %d tokens, want 3", len(tokens))
	}
	bb := tokens[1]
	if bb.Span.Start.Line != 2 || bb.Span.Start.Column != 3 || bb.Span.Start.Offset != 4 {
		t.Errorf("start = %+v, want line 2 column 3 offset 4", bb.Span.Start)
	}
	if bb.Span.End.Offset != 6 {
		t.Errorf("end offset = %d, want 6", bb.Span.End.Offset)
	}
}

func TestLexerMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  TokenKind
	}{
		{"unterminated string", "\"abc", TokenStringLiteral},
		{"string broken by newline", "\"abc\nx", TokenStringLiteral},
		{"unterminated char", "'a", TokenCharLiteral},
		{"unterminated text block", "\"\"\"\nabc", TokenTextBlock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := NewLexer([]byte(tt.input)).NextToken()
			if tok.Kind != tt.kind {
				t.Fatalf("kind = %v, want %v", tok.Kind, tt.kind)
			}
			if !tok.Is(FlagMalformed) {
				t.Errorf("expected malformed flag")
			}
		})
	}

	_, comments := Tokenize([]byte("/* open"))
	if len(comments) != 1 || !comments[0].Is(FlagMalformed) {
		t.Errorf("unterminated block comment should be malformed: %+v", comments)
	}
}

func TestLexerUnicodeIdentifier(t *testing.T) {
	tokens, _ := Tokenize([]byte("größe = 1"))
	if tokens[0].Kind != TokenIdent || tokens[0].Literal != "größe" {
		t.Errorf("got %v %q, want identifier größe", tokens[0].Kind, tokens[0].Literal)
	}
}
