// Package httpjson holds the JSON response helpers shared by handlers
// and middleware.
package httpjson

import (
	"encoding/json"
	"net/http"
)

type detailBody struct {
	Detail string `json:"detail"`
}

// Write encodes v as JSON with the given status code.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes an error body of the form {"detail": "..."}.
func Error(w http.ResponseWriter, status int, detail string) {
	Write(w, status, detailBody{Detail: detail})
}
