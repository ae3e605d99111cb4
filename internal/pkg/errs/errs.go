package errs

import (
	cr "github.com/cockroachdb/errors"
)

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func New(msg string) error {
	return cr.New(msg)
}

func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}

// Is matches sentinels attached via Mark as well as the wrap chain. The
// standard library's errors.Is cannot see marks, so any code matching a
// sentinel that may have been Marked must go through this.
func Is(err error, reference error) bool {
	return cr.Is(err, reference)
}
