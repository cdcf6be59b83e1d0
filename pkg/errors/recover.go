package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/ezoic/adengage/pkg/log"
)

// Recover converts a panic in the calling function into an error stored in *errp.
// It must be deferred directly:
//
//	func (e *OneHotEncoder) Fit(data [][]string) (err error) {
//		defer errors.Recover(&err, "OneHotEncoder.Fit")
//		...
//	}
//
// An error already stored in *errp is kept when no panic occurred.
func Recover(errp *error, op string) {
	r := recover()
	if r == nil {
		return
	}
	var perr error
	switch v := r.(type) {
	case error:
		perr = errors.Wrapf(v, "%s: panic", op)
	default:
		perr = errors.Newf("%s: panic: %s", op, fmt.Sprint(v))
	}
	if errp != nil {
		*errp = perr
	}
}

// WarningHandler receives non-fatal warnings such as ConvergenceWarning.
type WarningHandler func(w error)

// logWarning is the default handler. It logs through the global provider so
// warnings follow the configured level and output.
func logWarning(w error) {
	log.GetLoggerWithName("errors").Warn("Warning", log.ErrorKey, w.Error())
}

var warningHandler WarningHandler = logWarning

// SetWarningHandler replaces the handler used by Warn and returns the previous one.
func SetWarningHandler(h WarningHandler) WarningHandler {
	prev := warningHandler
	if h == nil {
		h = func(error) {}
	}
	warningHandler = h
	return prev
}

// Warn reports a non-fatal condition.
func Warn(w error) {
	if w == nil {
		return
	}
	warningHandler(w)
}
