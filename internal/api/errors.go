package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/HassanMunene/mazao-erp/internal/store"
)

// Kind is the closed set of failure categories the API can report. Domain
// code returns sentinel errors; handlers translate them to a Kind here. HTTP
// statuses come from the statusFor table only — never from error text.
type Kind string

const (
	KindUnauthenticated Kind = "Unauthenticated"
	KindForbidden       Kind = "Forbidden"
	KindNotFound        Kind = "NotFound"
	KindInvalidInput    Kind = "InvalidInput"
	KindConflict        Kind = "Conflict"
	KindInternal        Kind = "Internal"
)

var statusFor = map[Kind]int{
	KindUnauthenticated: http.StatusUnauthorized,
	KindForbidden:       http.StatusForbidden,
	KindNotFound:        http.StatusNotFound,
	KindInvalidInput:    http.StatusBadRequest,
	KindConflict:        http.StatusConflict,
	KindInternal:        http.StatusInternalServerError,
}

// envelope is the uniform response body: {success, data?, message?}.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse documents the failure envelope for swagger.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message"`
}

// writeError writes {success:false, message} with the status for kind.
func writeError(w http.ResponseWriter, kind Kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor[kind])
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: message})
}

// writeData writes {success:true, data} with the given HTTP status code.
func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

// writeMessage writes {success:true, message} with the given HTTP status code.
func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Message: message})
}

// writeStoreError translates a store-layer error into the taxonomy. Unknown
// errors become Internal without leaking storage-engine detail.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, KindNotFound, "resource not found")
	case errors.Is(err, store.ErrEmailTaken):
		writeError(w, KindConflict, store.ErrEmailTaken.Error())
	case errors.Is(err, store.ErrNotFarmer),
		errors.Is(err, store.ErrInvalidCropType),
		errors.Is(err, store.ErrInvalidCropStatus),
		errors.Is(err, store.ErrInvalidQuantity),
		errors.Is(err, store.ErrHarvestBeforePlanting),
		errors.Is(err, store.ErrInvalidRole):
		writeError(w, KindInvalidInput, err.Error())
	default:
		writeError(w, KindInternal, "internal error")
	}
}
