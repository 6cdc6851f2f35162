package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"ledger/internal/domain/ownership"
	"ledger/internal/shared/apperr"
	"ledger/internal/shared/logger"
	"ledger/internal/shared/middleware"
)

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeData answers reads with {success, data}.
func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

// writeMessage answers mutations with {success, message, data?}.
func writeMessage(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// writeError maps domain errors to status codes. Anything unrecognised is
// logged and reported as a 500 with failMsg.
func writeError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error, failMsg string) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, envelope{
			Success: false,
			Message: "The given data was invalid.",
			Errors:  verr.Fields,
		})
	case errors.Is(err, apperr.ErrNotFound):
		writeFailure(w, http.StatusNotFound, "Record not found")
	case errors.Is(err, apperr.ErrUnauthorized):
		writeFailure(w, http.StatusForbidden, "Unauthorized")
	case errors.Is(err, apperr.ErrAuthentication):
		writeFailure(w, http.StatusUnauthorized, "Unauthenticated.")
	default:
		log.Error(failMsg, "method", r.Method, "path", r.URL.Path, "error", err)
		writeFailure(w, http.StatusInternalServerError, failMsg)
	}
}

// caller builds the ownership identity for a request that passed Auth.
func caller(r *http.Request) (ownership.Caller, bool) {
	id, ok := middleware.UserID(r.Context())
	if !ok {
		return ownership.Caller{}, false
	}
	return ownership.User(id), true
}

// staffCaller is used by admin routes, which run behind RequireStaff.
func staffCaller(r *http.Request) (ownership.Caller, bool) {
	c, ok := caller(r)
	if !ok {
		return c, false
	}
	return ownership.Staff(c.UserID), true
}

// pathID parses the {id} wildcard. Non-numeric or non-positive ids are
// reported as not found.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryInt64 parses an optional positive integer query parameter.
func queryInt64(r *http.Request, key string) (int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, apperr.NewValidationError(key, "must be a positive integer")
	}
	return v, nil
}

func unauthenticated(w http.ResponseWriter) {
	writeFailure(w, http.StatusUnauthorized, "Unauthenticated.")
}

func notFound(w http.ResponseWriter) {
	writeFailure(w, http.StatusNotFound, "Record not found")
}
