package complete

import (
	"context"
)

// CodeComplete returns the proposals for the token at offset in src, best
// first. Malformed source and unresolvable names yield fewer proposals,
// never an error; the only error is ErrCanceled.
func CodeComplete(ctx context.Context, rc ResolutionContext, src []byte, offset int) (out []*Proposal, err error) {
	if err := checkCanceled(ctx); err != nil {
		return nil, err
	}
	offset = clamp(offset, len(src))
	defer func() {
		if r := recover(); r != nil {
			out, err = []*Proposal{}, recovered("complete", offset, r)
			if err != nil {
				out = nil
			}
		}
	}()

	u := analyze(ctx, rc, src, offset, true)
	if u.res.Completion == nil {
		log.Debugf("complete: no completion token at %d", offset)
		return []*Proposal{}, nil
	}
	col := newCollector(u)
	col.collect()
	poll(ctx)
	out = rank(col.out)
	log.Debugf("complete: %d proposals for %s %q at %d", len(out), u.res.Completion.Kind, u.res.Completion.Prefix, offset)
	return out, nil
}

func clamp(offset, n int) int {
	switch {
	case offset < 0:
		return 0
	case offset > n:
		return n
	}
	return offset
}
