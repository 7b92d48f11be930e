package admin

import (
	"errors"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/errs"
)

// Failure is the error every Service method returns. Kind is stable and safe
// to branch on; Message is human-readable. Names lists the unresolved names
// of unknown_permission and unknown_role failures, Fields the invalid fields
// of validation failures.
type Failure struct {
	Kind    errs.Kind         `json:"kind"`
	Message string            `json:"message"`
	Names   []string          `json:"names,omitempty"`
	Fields  []errs.FieldError `json:"fields,omitempty"`

	cause error
}

func (f *Failure) Error() string {
	return string(f.Kind) + ": " + f.Message
}

// Unwrap returns the underlying registry or authorization error.
func (f *Failure) Unwrap() error {
	return f.cause
}

func newFailure(err error) *Failure {
	var already *Failure
	if errors.As(err, &already) {
		return already
	}

	f := &Failure{
		Kind:    errs.KindOf(err),
		Message: err.Error(),
		Names:   errs.NamesOf(err),
		cause:   err,
	}

	var verr *errs.ValidationError
	if errors.As(err, &verr) {
		f.Fields = verr.Fields
	}

	if f.Kind == errs.KindInternal {
		f.Message = "internal error"
	}

	return f
}
