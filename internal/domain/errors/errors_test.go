package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMessageAndWrapping(t *testing.T) {
	appErr := NotFound("wallet not found")
	assert.Equal(t, http.StatusNotFound, appErr.Code)
	assert.Equal(t, ErrNotFound.Error(), appErr.Error())
	assert.True(t, stderrors.Is(appErr, ErrNotFound))

	noWrap := NewAppError(http.StatusTeapot, "just a message", nil)
	assert.Equal(t, "just a message", noWrap.Error())
}

func TestConstructorStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, BadRequest("x").Code)
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("x").Code)
	assert.Equal(t, http.StatusForbidden, Forbidden("x").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, UnprocessableEntity("x", ErrInvalidSelection).Code)
	assert.Equal(t, http.StatusBadGateway, BadGateway("x", ErrVendorUnavailable).Code)
	assert.Equal(t, http.StatusInternalServerError, InternalError(ErrBadRequest).Code)
}

func TestUnwrapExposesCause(t *testing.T) {
	appErr := UnprocessableEntity("selection rejected", ErrInvalidSelection)
	assert.True(t, stderrors.Is(appErr, ErrInvalidSelection))
	assert.Equal(t, ErrInvalidSelection, stderrors.Unwrap(appErr))
}
