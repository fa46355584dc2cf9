// Package complete implements code completion and code select for Java
// compilation units that are usually still being edited.
//
// A request parses the source with the cursor planted, builds the scopes
// enclosing the cursor, types the expressions around it and collects the
// visible candidates. Candidates are scored with additive relevance weights
// and emitted in a deterministic order:
//
//	proposals, err := complete.CodeComplete(ctx, rc, src, offset)
//
// Nothing is cached between requests. Cross-file knowledge comes only from
// the caller's ResolutionContext.
package complete
