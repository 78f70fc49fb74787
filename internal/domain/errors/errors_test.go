package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := NewAppError(http.StatusTeapot, "msg only", nil)
	assert.Equal(t, "msg only", e.Error())

	wrapped := NewAppError(http.StatusBadRequest, "msg", errors.New("inner"))
	assert.Equal(t, "inner", wrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	e := NotFound("saque não encontrado")
	assert.True(t, errors.Is(e, ErrNotFound))
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NotFound("x").Status)
	assert.Equal(t, http.StatusBadRequest, BadRequest("x").Status)
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("x").Status)
	assert.Equal(t, http.StatusForbidden, Forbidden("x").Status)
	assert.Equal(t, http.StatusConflict, Conflict("x").Status)
	assert.Equal(t, http.StatusUnprocessableEntity, UnprocessableEntity("x", ErrInsufficientFunds).Status)
	assert.Equal(t, http.StatusInternalServerError, InternalError(errors.New("boom")).Status)
}
