package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	app_errors "portfolio-chat/backend/internal/errors"
	"portfolio-chat/backend/internal/model"
	"portfolio-chat/backend/internal/protocol"
)

// This file contains shared DTOs (Data Transfer Objects) for API responses
// and helper functions for sending consistent HTTP responses.

// ErrorResponse defines the standard JSON structure for error messages.
type ErrorResponse struct {
	Error string `json:"error" example:"Invalid request body"`
}

// StatusResponse defines a generic success response.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// FragmentRecord documents the payload of one fragment record of a relay
// stream. The stream ends with either `data: [DONE]` or an ErrorResponse.
type FragmentRecord struct {
	Text string `json:"text" example:"Angela is the founding designer"`
}

// respondWithError maps business-layer errors to HTTP status codes and writes
// a JSON error body. It is only used before a stream has been opened.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, app_errors.ErrNotConfigured):
		statusCode = http.StatusInternalServerError
		message = app_errors.ErrNotConfigured.Error()
	case errors.Is(err, app_errors.ErrValidation):
		statusCode = http.StatusBadRequest
		// Field-level detail stays in the log.
		message = "Invalid request body"
	case errors.Is(err, app_errors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "The requested resource was not found."
	default:
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	}

	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)

	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondWithJSON writes payload as the whole response body. Encoding happens
// before the status line so a failure can still become a plain 500.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		slog.Error("Could not encode response body", "status_code", code, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("Client went away before the response was written", "status_code", code, "error", err)
	}
}

// writeStreamEvent writes one relay event as a record. A returned error means
// the client has disconnected.
func writeStreamEvent(enc *protocol.Encoder, ev model.StreamEvent) error {
	switch {
	case ev.Error != "":
		slog.Warn("Sending stream error to client", "message", ev.Error)
		return enc.WriteError(ev.Error)
	case ev.Done:
		return enc.WriteDone()
	default:
		return enc.WriteText(ev.Text)
	}
}
