// Package httpx holds the response helpers of the sandbox game server: JSON
// bodies, {"detail": ...} errors and a ResponseWriter that remembers whether
// anything was written.
package httpx

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/midsquest/midsquest/internal/common/logtrace"
	"github.com/rs/zerolog/log"
)

// SendJsonRsp sends a JSON response with the given status code. msg may be a
// struct, or a string/[]byte that already holds valid JSON.
func SendJsonRsp(ctx context.Context, w http.ResponseWriter, statusCode int, msg any) {
	var msgJson []byte
	switch m := msg.(type) {
	case string:
		msgJson = []byte(m)
	case []byte:
		msgJson = m
	default:
		var err error
		msgJson, err = json.Marshal(msg)
		if err != nil {
			log.Ctx(ctx).Err(err).Msg("unable to marshal json")
			ErrApplicationError("Id: " + logtrace.RequestIdFromContext(ctx)).Send(w)
			return
		}
	}
	if !json.Valid(msgJson) {
		log.Ctx(ctx).Error().Msg("response is not valid json")
		ErrApplicationError("Id: " + logtrace.RequestIdFromContext(ctx)).Send(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(msgJson)
}

// SendMessage sends {"message": msg} with status 200.
func SendMessage(ctx context.Context, w http.ResponseWriter, msg string) {
	SendJsonRsp(ctx, w, http.StatusOK, map[string]string{"message": msg})
}
