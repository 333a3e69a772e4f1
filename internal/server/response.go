package server

import (
	"encoding/json"
	"net/http"
	"time"
)

// codedError is the response body for anticipated failures: a stable
// machine-readable code plus a human-readable message.
type codedError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// normalizedError is the final fallback shape for unanticipated
// failures, tagged with the operation that failed.
type normalizedError struct {
	Error     bool   `json:"error"`
	Message   string `json:"message"`
	Context   string `json:"context"`
	Timestamp string `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, codedError{Error: code, Message: message})
}

// writeNormalizedError wraps err into the normalized error shape. The
// context tag identifies which operation failed; the raw error text is
// the only upstream detail allowed through.
func writeNormalizedError(w http.ResponseWriter, status int, err error, context string) {
	message := "An unknown error occurred"
	if err != nil {
		message = err.Error()
	}
	writeJSON(w, status, normalizedError{
		Error:     true,
		Message:   message,
		Context:   context,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
