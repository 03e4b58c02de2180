package errors_test

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/chessreport/internal/errors"
)

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "NOT_FOUND: report not found: 7", errors.NewNotFoundError("report", 7).Error())
	assert.Equal(t, "INTERNAL_ERROR: internal server error (EOF)", errors.NewInternalError(io.EOF).Error())
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", errors.NewConflictError("report is still pending"))

	appErr, ok := errors.As(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, errors.ErrCodeConflict, appErr.Code)

	_, ok = errors.As(io.EOF)
	assert.False(t, ok)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, errors.IsNotFound(fmt.Errorf("x: %w", errors.NewNotFoundError("report", 1))))
	assert.False(t, errors.IsNotFound(errors.NewBadRequestError("bad")))
	assert.False(t, errors.IsNotFound(nil))
}

func TestUnwrap(t *testing.T) {
	err := errors.NewUnavailableError("queue full", io.ErrShortWrite)
	assert.ErrorIs(t, err, io.ErrShortWrite)
	assert.Equal(t, http.StatusServiceUnavailable, err.Status)
}
