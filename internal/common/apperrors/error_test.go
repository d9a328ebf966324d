package apperrors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Run("TestError", func(t *testing.T) {
		ErrBaseErr := New("base error")
		assert.Equal(t, "base error", ErrBaseErr.Error())
		assert.Equal(t, "msg", ErrBaseErr.New("msg").Error())
		assert.ErrorIs(t, ErrBaseErr, ErrBaseErr)

		ErrFirstLevel := ErrBaseErr.New("first level")
		assert.Equal(t, "first level", ErrFirstLevel.Error())
		assert.ErrorIs(t, ErrFirstLevel, ErrBaseErr)

		ErrAnotherErr := New("another error")
		ErrAnotherErrMsg := ErrAnotherErr.Msg("another error msg")
		ErrWrappedErr := ErrFirstLevel.Err(ErrAnotherErrMsg)
		assert.Equal(t, "first level", ErrWrappedErr.Error())
		assert.ErrorIs(t, ErrWrappedErr, ErrBaseErr)
		assert.ErrorIs(t, ErrWrappedErr, ErrFirstLevel)
		assert.ErrorIs(t, ErrWrappedErr, ErrAnotherErr)
		assert.ErrorIs(t, ErrWrappedErr, ErrAnotherErrMsg)

		err := errors.New("error")
		ErrWrappedErr = ErrFirstLevel.Err(err)
		assert.Equal(t, "first level", ErrWrappedErr.Error())
		assert.ErrorIs(t, ErrWrappedErr, ErrBaseErr)
		assert.ErrorIs(t, ErrWrappedErr, err)

		ErrWrappedErr = ErrFirstLevel.MsgErr("msg", err)
		assert.Equal(t, "msg", ErrWrappedErr.Error())
		assert.ErrorIs(t, ErrWrappedErr, ErrBaseErr)
		assert.ErrorIs(t, ErrWrappedErr, err)

		ErrGoErr := fmt.Errorf("dial tcp: connection refused")
		ErrWrappedGoErr := ErrFirstLevel.Err(ErrGoErr)
		assert.ErrorIs(t, ErrWrappedGoErr, ErrGoErr)
		assert.Equal(t, "first level: dial tcp: connection refused", ErrWrappedGoErr.ErrorAll())
	})
}

func TestStatusCode(t *testing.T) {
	ErrUnauthenticated := New("not logged in").SetStatusCode(0)
	ErrBadRequest := New("bad request").SetStatusCode(http.StatusBadRequest)

	assert.Equal(t, 0, ErrUnauthenticated.StatusCode())
	assert.Equal(t, http.StatusBadRequest, ErrBadRequest.Msg("missing field").StatusCode())
	assert.Equal(t, http.StatusBadRequest, StatusCodeOf(ErrBadRequest.Err(errors.New("x")), -1))
	assert.Equal(t, -1, StatusCodeOf(errors.New("plain"), -1))

	wrapped := fmt.Errorf("context: %w", ErrUnauthenticated)
	assert.Equal(t, 0, StatusCodeOf(wrapped, -1))
	assert.ErrorIs(t, wrapped, ErrUnauthenticated)
}
