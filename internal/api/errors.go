// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"encoding/json"
	"net/http"

	"github.com/ManuGH/videosvc/internal/validate"
	"github.com/ManuGH/videosvc/internal/video"
)

// ErrorsResponse is the body of every 4xx answer of the video routes.
type ErrorsResponse struct {
	ErrorsMessages []validate.Error `json:"errorsMessages"`
}

var notFoundBody = ErrorsResponse{
	ErrorsMessages: []validate.Error{{Field: video.FieldID, Message: video.MsgNotFound}},
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeValidationErrors writes a 400 with errs in examination order.
func writeValidationErrors(w http.ResponseWriter, errs []validate.Error) {
	writeJSON(w, http.StatusBadRequest, ErrorsResponse{ErrorsMessages: errs})
}

// writeNotFound writes a 404 Not Found response
func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, notFoundBody)
}

func writeTooLarge(w http.ResponseWriter) {
	writeJSON(w, http.StatusRequestEntityTooLarge, ErrorsResponse{
		ErrorsMessages: []validate.Error{{Field: "body", Message: "Request body too large"}},
	})
}

func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func errorFields(errs []validate.Error) []string {
	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field
	}
	return fields
}
