package analytics

import (
	"errors"
	"fmt"
)

// ErrNoCategories means the category table is empty, so a best seller cannot be chosen.
var ErrNoCategories = errors.New("no categories configured")

// InputError reports a malformed request. No computation is performed.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ComputationError reports data that cannot be aggregated or forecast, such
// as a NULL numeric field or a series too short to train on.
type ComputationError struct {
	Op  string
	Err error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}

func computation(op string, err error) error {
	var ce *ComputationError
	if errors.As(err, &ce) {
		return err
	}
	return &ComputationError{Op: op, Err: err}
}
