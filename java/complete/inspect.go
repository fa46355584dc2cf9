package complete

import (
	"context"
	"fmt"
	"strings"
)

// Context describes a completion position as the engine sees it: the
// token, what kind of completion it asks for and which types the
// surrounding code expects there.
type Context struct {
	Offset int `json:"offset"`
	// Token is the whole identifier under the cursor, Prefix the part
	// before it.
	Token   string `json:"token"`
	Prefix  string `json:"prefix"`
	Replace Range  `json:"replace"`
	// Kind and Location are empty when no completion is possible at the
	// offset, e.g. inside a comment.
	Kind      string `json:"kind,omitempty"`
	Location  string `json:"location,omitempty"`
	Qualifier string `json:"qualifier,omitempty"`
	// Expected holds the signatures of the expected types, best first.
	Expected []string `json:"expected,omitempty"`
	// Enclosing is the binary name of the innermost class around the
	// position.
	Enclosing string `json:"enclosing,omitempty"`
	InComment bool   `json:"inComment,omitempty"`
}

// Inspect reports the completion context at offset without collecting
// proposals.
func Inspect(ctx context.Context, rc ResolutionContext, src []byte, offset int) (out *Context, err error) {
	if err := checkCanceled(ctx); err != nil {
		return nil, err
	}
	offset = clamp(offset, len(src))
	out = &Context{Offset: offset, Replace: Range{Start: offset, End: offset}}
	defer func() {
		if r := recover(); r != nil {
			err = recovered("inspect", offset, r)
			if err != nil {
				out = nil
			}
		}
	}()

	u := analyze(ctx, rc, src, offset, true)
	out.InComment = u.res.InComment
	c := u.res.Completion
	if c == nil {
		return out, nil
	}
	col := newCollector(u)
	out.Token = c.Token
	out.Prefix = c.Prefix
	out.Replace = col.replace
	out.Kind = c.Kind.String()
	out.Location = c.Location.String()
	if c.Qualifier != nil {
		start, end := clamp(c.Qualifier.Span.Start.Offset, len(src)), clamp(c.Qualifier.Span.End.Offset, len(src))
		if start < end {
			out.Qualifier = string(src[start:end])
		}
	}
	for _, t := range col.r.expected {
		out.Expected = append(out.Expected, t.Signature())
	}
	if cls := u.enclosingClass(); cls != nil {
		out.Enclosing = cls.Name
	}
	return out, nil
}

// String renders the context one property per line.
func (c *Context) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "completion offset=%d\n", c.Offset)
	fmt.Fprintf(&sb, "completion range=[%d, %d]\n", c.Replace.Start, c.Replace.End)
	fmt.Fprintf(&sb, "completion token=%q\n", c.Token)
	fmt.Fprintf(&sb, "completion kind=%s\n", orNull(c.Kind))
	fmt.Fprintf(&sb, "completion token location=%s\n", orNull(c.Location))
	if len(c.Expected) == 0 {
		sb.WriteString("expectedTypesSignatures=null\n")
	} else {
		fmt.Fprintf(&sb, "expectedTypesSignatures={%s}\n", strings.Join(c.Expected, ","))
	}
	fmt.Fprintf(&sb, "enclosingType=%s", orNull(c.Enclosing))
	return sb.String()
}
