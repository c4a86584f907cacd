package document

import (
	"errors"

	"github.com/ezrec/isaspec/translate"
)

var f = translate.From

var (
	ErrEmpty         = errors.New(f("no root element"))
	ErrMultipleRoots = errors.New(f("multiple root elements"))
)

// ErrSyntax is a malformed document.
type ErrSyntax struct {
	LineNo int
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d: %v", err.LineNo, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}
