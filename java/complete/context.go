package complete

import (
	"context"
	"errors"
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/sai-complete/classpath"
	"github.com/dhamidi/sai-complete/project"
)

var log = commonlog.GetLogger("sai.complete")

// ErrCanceled is returned when the request context ends before a result is
// ready. It wraps the context's own error.
var ErrCanceled = errors.New("completion canceled")

// ResolutionContext carries what a request needs beyond the source text.
// It is owned by the caller and only read by the engine.
type ResolutionContext struct {
	// Oracle answers class lookups. A nil Oracle means the built-in core
	// library only.
	Oracle  classpath.Oracle
	Options project.Options
	// Path names the file being completed.
	Path string
}

func (rc ResolutionContext) oracle() classpath.Oracle {
	if rc.Oracle == nil {
		return classpath.Builtin()
	}
	return rc.Oracle
}

func checkCanceled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	return nil
}

// canceledPanic unwinds a request from deep inside candidate collection.
type canceledPanic struct{ err error }

// poll aborts the request when ctx is done. It is called at coarse points
// in long loops.
func poll(ctx context.Context) {
	if err := checkCanceled(ctx); err != nil {
		panic(canceledPanic{err})
	}
}

// recovered converts a recovered panic into the error of a request.
// Cancellation becomes ErrCanceled; anything else is logged and yields no
// error so that the caller gets an empty result.
func recovered(what string, offset int, r any) error {
	if c, ok := r.(canceledPanic); ok {
		return c.err
	}
	log.Errorf("%s at offset %d: recovered from %v", what, offset, r)
	return nil
}
