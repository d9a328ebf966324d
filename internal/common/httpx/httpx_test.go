package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/midsquest/midsquest/internal/common/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestErrorSend(t *testing.T) {
	rr := httptest.NewRecorder()
	ErrUnAuthorized("Invalid session token").Send(rr)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"detail": "Invalid session token"}`, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestErrMissingFields(t *testing.T) {
	rr := httptest.NewRecorder()
	ErrMissingFields("username", "password").Send(rr)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.JSONEq(t, `{"detail": [
		{"loc": ["body", "username"], "msg": "field required", "type": "value_error.missing"},
		{"loc": ["body", "password"], "msg": "field required", "type": "value_error.missing"}
	]}`, rr.Body.String())
}

func TestSendError(t *testing.T) {
	rr := httptest.NewRecorder()
	SendError(rr, apperrors.New("already registered").SetStatusCode(http.StatusBadRequest))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"detail": "already registered"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	SendError(rr, apperrors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestSendJsonRsp(t *testing.T) {
	rr := httptest.NewRecorder()
	SendJsonRsp(context.Background(), rr, http.StatusOK, `{"message": "hi"}`)
	assert.Equal(t, `{"message": "hi"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	SendJsonRsp(context.Background(), rr, http.StatusOK, `not json`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	rr = httptest.NewRecorder()
	SendMessage(context.Background(), rr, "ok")
	assert.JSONEq(t, `{"message": "ok"}`, rr.Body.String())
}

func TestResponseWriter(t *testing.T) {
	rr := httptest.NewRecorder()
	rw := NewResponseWriter(rr)
	assert.False(t, rw.Written())
	assert.Same(t, rw, NewResponseWriter(rw))

	rw.WriteHeader(http.StatusTeapot)
	rw.WriteHeader(http.StatusOK)
	_, _ = rw.Write([]byte("abc"))

	assert.True(t, rw.Written())
	assert.Equal(t, http.StatusTeapot, rw.Status())
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, 3, rw.BytesWritten())
}
