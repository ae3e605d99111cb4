//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"counseling-portal/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIs(t *testing.T) {
	sentinel := errs.New("operation failed")

	t.Run("sees a marked sentinel", func(t *testing.T) {
		cause := errors.New("connection refused")
		marked := errs.Mark(cause, sentinel)

		require.True(t, errs.Is(marked, sentinel))
		// The cause stays reachable alongside the mark.
		assert.True(t, errs.Is(marked, cause))
		// Marks carry identity only through errs.Is.
		assert.False(t, errors.Is(marked, sentinel))
	})

	t.Run("sees through a wrap chain", func(t *testing.T) {
		wrapped := errs.Wrap(sentinel, "while saving")
		assert.True(t, errs.Is(wrapped, sentinel))
	})

	t.Run("nil cause yields the sentinel itself", func(t *testing.T) {
		assert.True(t, errs.Is(errs.Mark(nil, sentinel), sentinel))
	})

	t.Run("unrelated errors do not match", func(t *testing.T) {
		assert.False(t, errs.Is(errors.New("other"), sentinel))
	})
}
