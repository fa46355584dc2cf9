package complete

import (
	"github.com/dhamidi/sai-complete/java/parser"
	"github.com/dhamidi/sai-complete/project"
)

var (
	primitiveKeywords = []string{"boolean", "byte", "char", "double", "float", "int", "long", "short"}

	topLevelKeywords = []string{"abstract", "class", "enum", "final", "import", "interface", "public"}

	memberKeywords = []string{
		"abstract", "class", "enum", "final", "interface", "native", "private", "protected",
		"public", "static", "strictfp", "synchronized", "transient", "void", "volatile",
	}

	statementKeywords = []string{"assert", "class", "do", "final", "for", "if", "synchronized", "throw", "try", "while"}

	expressionKeywords = []string{"false", "new", "null", "true"}
)

// gated lists keywords that exist only from some language level on.
var gated = map[string]project.Feature{
	"var":        project.FeatureVar,
	"yield":      project.FeatureSwitchExpression,
	"record":     project.FeatureRecord,
	"sealed":     project.FeatureSealed,
	"non-sealed": project.FeatureSealed,
	"permits":    project.FeatureSealed,
}

// keyword proposes word when the prefix and the language level allow it.
func (c *collector) keyword(word string) {
	if f, ok := gated[word]; ok && !c.r.opts.Supports(f) {
		return
	}
	if !c.r.matches(word) {
		return
	}
	rel := c.r.base() + c.r.caseRelevance(word) + c.r.qualification(false)
	if (word == "true" || word == "false") && c.r.expectsBoolean() {
		rel += relTrueOrFalse
	}
	c.add(&Proposal{
		Kind:       ProposalKeyword,
		Name:       word,
		Completion: word,
		Relevance:  rel,
	})
}

func (c *collector) keywordList(words []string) {
	for _, w := range words {
		c.keyword(w)
	}
}

func (c *collector) primitiveKeywords() {
	c.keywordList(primitiveKeywords)
}

// keywords proposes the keywords legal at the completion position.
func (c *collector) keywords() {
	switch c.c.Kind {
	case parser.CompletionKeywordContext:
		if decl := c.c.Qualifier; decl != nil && decl.Kind.IsTypeDecl() {
			c.headerKeywords(decl)
			return
		}
		if c.c.Location == parser.LocationTopLevel {
			c.topLevelKeywords()
		}
	case parser.CompletionPotentialMethodDeclaration:
		c.memberKeywords()
	case parser.CompletionNameReference:
		if c.c.Location == parser.LocationStatementStart {
			c.statementKeywords()
		}
		c.expressionKeywords()
	}
}

func (c *collector) headerKeywords(decl *parser.Node) {
	switch decl.Kind {
	case parser.KindClassDecl:
		if ext := decl.Child(3); ext == nil || ext.Kind != parser.KindExtendsClause {
			c.keyword("extends")
		}
		if impl := decl.Child(4); impl == nil || impl.Kind != parser.KindImplementsClause {
			c.keyword("implements")
		}
		if decl.Child(0).Has(parser.NodeSealed) {
			c.keyword("permits")
		}
	case parser.KindInterfaceDecl:
		if ext := decl.Child(3); ext == nil || ext.Kind != parser.KindExtendsClause {
			c.keyword("extends")
		}
		if decl.Child(0).Has(parser.NodeSealed) {
			c.keyword("permits")
		}
	case parser.KindEnumDecl, parser.KindRecordDecl:
		if impl := decl.Child(4); impl == nil || impl.Kind != parser.KindImplementsClause {
			c.keyword("implements")
		}
	}
}

func (c *collector) topLevelKeywords() {
	root := c.u.res.Root
	var types, pkg bool
	for _, n := range root.Children {
		if n.Span.Start.Offset >= c.u.offset {
			break
		}
		switch {
		case n.Kind == parser.KindPackageDecl:
			pkg = true
		case n.Kind.IsTypeDecl():
			types = true
		}
	}
	if !pkg && !types && len(c.u.file.Imports) == 0 {
		c.keyword("package")
	}
	c.keywordList(topLevelKeywords)
	c.keyword("record")
	c.keyword("sealed")
	c.keyword("non-sealed")
}

func (c *collector) memberKeywords() {
	c.keywordList(memberKeywords)
	c.primitiveKeywords()
	c.keyword("record")
	c.keyword("sealed")
	c.keyword("non-sealed")
	if cls := c.u.enclosingClass(); cls != nil && cls.IsInterface() {
		c.keyword("default")
	}
}

func (c *collector) statementKeywords() {
	c.keywordList(statementKeywords)
	c.primitiveKeywords()
	c.keyword("var")

	var inBody, inLoop, inSwitch, inSwitchExpr bool
	for i := len(c.u.path) - 1; i >= 0; i-- {
		n := c.u.path[i]
		stop := false
		switch n.Kind {
		case parser.KindForStmt, parser.KindEnhancedForStmt, parser.KindWhileStmt, parser.KindDoStmt:
			inLoop = true
		case parser.KindSwitchStmt:
			inSwitch = true
		case parser.KindSwitchExpr:
			inSwitchExpr = true
		case parser.KindMethodDecl, parser.KindConstructorDecl, parser.KindLambdaExpr, parser.KindInitializer:
			inBody = true
			stop = true
		case parser.KindClassBody:
			stop = true
		}
		if stop {
			break
		}
	}
	if inBody {
		c.keyword("return")
	}
	if inLoop || inSwitch {
		c.keyword("break")
	}
	if inLoop {
		c.keyword("continue")
	}
	if inSwitchExpr {
		c.keyword("yield")
	}
	c.keyword("switch")

	block, prev := c.statementBlock()
	if block != nil && block.Kind == parser.KindSwitchCase {
		c.keyword("case")
		c.keyword("default")
	}
	switch {
	case prev == nil:
	case prev.Kind == parser.KindIfStmt && prev.Child(2) == nil:
		c.keyword("else")
	case prev.Kind == parser.KindTryStmt && prev.Child(len(prev.Children)-1) == nil:
		c.keyword("catch")
		c.keyword("finally")
	}
}

func (c *collector) expressionKeywords() {
	c.keywordList(expressionKeywords)
	if !c.u.tree.InStaticContext(c.u.at) && len(c.u.tree.Classes(c.u.at)) > 0 {
		c.keyword("this")
		c.keyword("super")
	}
	if c.c.Location != parser.LocationStatementStart {
		if c.r.opts.Supports(project.FeatureSwitchExpression) {
			c.keyword("switch")
		}
	}
}

// statementBlock returns the block or switch case holding the statement
// being completed, and the statement before it.
func (c *collector) statementBlock() (block, prev *parser.Node) {
	for i := len(c.u.path) - 1; i > 0; i-- {
		p := c.u.path[i-1]
		if p.Kind != parser.KindBlock && p.Kind != parser.KindSwitchCase {
			continue
		}
		if k := indexOf(p.Children, c.u.path[i]); k > 0 && p.Children[k-1].Kind != parser.KindSwitchLabel {
			prev = p.Children[k-1]
		}
		return p, prev
	}
	return nil, nil
}
