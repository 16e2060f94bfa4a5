// Package httputil provides shared HTTP response writers.
package httputil

import (
	"encoding/json"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
)

// ErrorBody is the payload of a failed request.
type ErrorBody struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
// It sets the Content-Type header to application/json. A nil data writes
// the JSON literal null, since mock routes may legitimately answer null.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "encoding response: "+err.Error(), "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// WriteRaw writes body as is. An empty contentType is sniffed from body.
func WriteRaw(w http.ResponseWriter, status int, contentType string, body []byte) {
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// WriteError writes an ErrorBody with the given status code.
func WriteError(w http.ResponseWriter, status int, message, stack string) {
	WriteJSON(w, status, ErrorBody{Message: message, Stack: stack})
}

// ContentTypeForFile guesses the content type of a file from its extension,
// falling back to sniffing its content.
func ContentTypeForFile(name string, body []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return http.DetectContentType(body)
}
