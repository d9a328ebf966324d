package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/midsquest/midsquest/internal/common/logtrace"
	"github.com/stretchr/testify/assert"
)

func TestRequestLogger(t *testing.T) {
	var seenID string
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = logtrace.RequestIdFromContext(r.Context())
		w.WriteHeader(http.StatusCreated)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/look", nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.NotEmpty(t, seenID)
	assert.Equal(t, seenID, rr.Header().Get(RequestIDHeader))
}

func TestPanicHandler(t *testing.T) {
	h := PanicHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("lost in the dungeon")
	}))

	rr := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"detail": "unable to process request"}`, rr.Body.String())
}

func TestSetTimeout(t *testing.T) {
	var deadline time.Time
	var ok bool
	h := SetTimeout(time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, ok = r.Context().Deadline()
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}
