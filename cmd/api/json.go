package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/farxc/productivity-dashboard/internal/dashboard/types"
	"github.com/farxc/productivity-dashboard/internal/response"
)

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(data)
}

func writeJSONError(w http.ResponseWriter, status int, message string, msgs ...types.Message) error {
	return writeJSON(w, status, &response.ErrorResponse{Error: message, Messages: msgs})
}

// readJSON decodes the request body into data. An empty body leaves data
// untouched.
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(data)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
