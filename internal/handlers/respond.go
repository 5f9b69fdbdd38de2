// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP handlers for the blogapi REST
// surface. Every response uses the same JSON envelope; error responses
// never leak internals.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"blogapi/internal/store"
	"blogapi/internal/validate"
)

// envelope is the uniform response shape for every endpoint.
type envelope struct {
	Success    bool              `json:"success"`
	Data       any               `json:"data,omitempty"`
	Error      string            `json:"error,omitempty"`
	Details    []string          `json:"details,omitempty"`
	Pagination *store.Pagination `json:"pagination,omitempty"`
}

// marshalEnvelope serializes an envelope once so callers can both send
// and cache the exact bytes.
func marshalEnvelope(env envelope) []byte {
	body, err := json.Marshal(env)
	if err != nil {
		slog.Error("envelope marshal failed", "error", err)
		return []byte(`{"success":false,"error":"Internal server error"}`)
	}
	return body
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// respondData writes a success envelope with the given payload.
func respondData(w http.ResponseWriter, status int, data any) {
	writeBody(w, status, marshalEnvelope(envelope{Success: true, Data: data}))
}

// respondList writes a success envelope with pagination metadata.
func respondList(w http.ResponseWriter, data any, pg store.Pagination) {
	writeBody(w, http.StatusOK, marshalEnvelope(envelope{Success: true, Data: data, Pagination: &pg}))
}

// respondError writes a failure envelope with an optional detail list.
func respondError(w http.ResponseWriter, status int, message string, details ...string) {
	writeBody(w, status, marshalEnvelope(envelope{Success: false, Error: message, Details: details}))
}

// respondValidation maps collected validation violations to a 400.
func respondValidation(w http.ResponseWriter, errs validate.Errors) {
	respondError(w, http.StatusBadRequest, "Validation failed", errs.Messages()...)
}

// respondInternal logs the underlying error and writes an opaque 500.
func respondInternal(w http.ResponseWriter, what string, err error) {
	slog.Error(what, "error", err)
	respondError(w, http.StatusInternalServerError, "Internal server error")
}

// decodeBody parses a JSON request body into a generic map for schema
// validation. Rejects non-object bodies.
func decodeBody(r *http.Request) (map[string]any, error) {
	var payload map[string]any
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&payload); err != nil {
		return nil, errors.New("request body must be a JSON object")
	}
	if payload == nil {
		return nil, errors.New("request body must be a JSON object")
	}
	return payload, nil
}
