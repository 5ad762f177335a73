package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	errs "github.com/matzehuels/procdeck/pkg/errors"
)

// apiError is the JSON body of every error response.
type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *apiError) Error() string { return e.Code + ": " + e.Message }

func badRequest(message string, cause error) *apiError {
	return withCause(&apiError{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: message}, cause)
}

func notFound(message string) *apiError {
	return &apiError{Status: http.StatusNotFound, Code: string(errs.ErrCodeNotFound), Message: message}
}

func tooLarge(limit int64) *apiError {
	return &apiError{
		Status:  http.StatusRequestEntityTooLarge,
		Code:    "PAYLOAD_TOO_LARGE",
		Message: fmt.Sprintf("upload exceeds the %d MB limit", limit>>20),
	}
}

func internal(message string, cause error) *apiError {
	return withCause(&apiError{Status: http.StatusInternalServerError, Code: string(errs.ErrCodeInternal), Message: message}, cause)
}

func withCause(e *apiError, cause error) *apiError {
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// fromError maps a coded error to a response.
func fromError(err error) *apiError {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae
	}

	code := errs.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidPath:
		status = http.StatusBadRequest
	case errs.ErrCodeMalformedTable:
		status = http.StatusUnprocessableEntity
	case errs.ErrCodeNotFound, errs.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}
	if code == "" {
		code = errs.ErrCodeInternal
	}
	return &apiError{Status: status, Code: string(code), Message: errs.UserMessage(err)}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	ae := fromError(err)
	writeJSON(w, ae.Status, ae)
}
