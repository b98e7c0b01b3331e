package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ONSdigital/log.go/v2/log"
)

// These messages are returned to client in error response bodies.
//
const (
	MsgCannotReadBody  = "cannot read request body"
	MsgInternalError   = "internal server error"
	MsgInvalidID       = "requested object not found"
	MsgNotImplemented  = "creating records in a sub-collection is not supported"
	MsgCannotWriteBody = "cannot marshal response"
)

// ClientError implements error interface with additional code method
type ClientError interface {
	error
	Code() int
}

// handleError logs err once with the data collected along its chain and
// answers with its status. Errors that are not ClientErrors are reported
// as internal errors without exposing their text.
func handleError(ctx context.Context, event string, w http.ResponseWriter, err error, logData log.Data) {
	status := http.StatusInternalServerError
	msg := MsgInternalError

	var cliErr ClientError
	if errors.As(err, &cliErr) {
		status = cliErr.Code()
		msg = cliErr.Error()
	}

	for k, v := range unwrapLogData(err) {
		logData[k] = v
	}
	logData["setting_response_status"] = status
	log.Error(ctx, event, err, logData)

	errorResponse(ctx, w, status, msg)
}

// errorResponse emits a json document for errors
//
func errorResponse(ctx context.Context, w http.ResponseWriter, status int, msg string) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)

	response := struct {
		Message string `json:"message"`
	}{
		Message: msg,
	}
	buf, err := json.Marshal(&response)
	if err != nil {
		log.Error(ctx, "cannot marshal error response", err)
	}
	w.Write(buf) // nolint
}

// okResponse emits body as a json document with status 200. Callers set
// any extra headers beforehand.
//
func okResponse(ctx context.Context, w http.ResponseWriter, body interface{}) {
	buf, err := json.Marshal(body)
	if err != nil {
		log.Error(ctx, MsgCannotWriteBody, err)
		errorResponse(ctx, w, http.StatusInternalServerError, MsgInternalError)
		return
	}

	w.Header().Set("content-type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(buf) // nolint
}
