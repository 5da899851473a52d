package respond

import (
	"encoding/json"
	"log"
	"net/http"
)

// Fetched is the common body shape carrying the legacy "fetch" flag plus a
// human-readable message.
type Fetched struct {
	Fetch   bool   `json:"fetch"`
	Message string `json:"message"`
}

// FetchError is the body used when a store call fails; the legacy API puts
// the text under "error" rather than "message".
type FetchError struct {
	Fetch bool   `json:"fetch"`
	Error string `json:"error"`
}

// JSON writes an arbitrary payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("respond: encode payload failed: %v", err)
	}
}

// Message writes the fetch/message envelope.
func Message(w http.ResponseWriter, status int, fetch bool, message string) {
	JSON(w, status, Fetched{Fetch: fetch, Message: message})
}

// StoreError writes the fetch/error envelope used for store failures.
func StoreError(w http.ResponseWriter, status int, text string) {
	JSON(w, status, FetchError{Fetch: false, Error: text})
}
