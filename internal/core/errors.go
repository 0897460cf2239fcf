package core

import (
	"errors"
	"fmt"
)

var (
	ErrSourceMissing    = errors.New("dataset source missing")
	ErrMalformedSource  = errors.New("dataset source malformed")
	ErrDuplicateAddress = errors.New("duplicate address id")
)

// LoadError reports a dataset that could not be read. It is fatal for the
// session that requested the load.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load dataset %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError wraps err unless it already is a LoadError.
func NewLoadError(source string, err error) error {
	if err == nil {
		return nil
	}
	var le *LoadError
	if errors.As(err, &le) {
		return err
	}
	return &LoadError{Source: source, Err: err}
}

// IsLoadError reports whether err is, or wraps, a LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
