package response

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON payload with the given status code.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// OK writes a 200 response with the given payload.
func OK(w http.ResponseWriter, payload any) {
	WriteJSON(w, http.StatusOK, payload)
}

// Created writes a 201 response with the given payload.
func Created(w http.ResponseWriter, payload any) {
	WriteJSON(w, http.StatusCreated, payload)
}

// NoContent writes a 204 response with no body.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
