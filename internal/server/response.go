// internal/server/response.go
package server

import (
	"encoding/json"
	"net/http"
)

// webhookResponse is the JSON body for every webhook endpoint reply, success
// or failure. Fields that do not apply are omitted. Contact carries only the
// contact's display name, never the full record.
type webhookResponse struct {
	Success          bool   `json:"success"`
	Message          string `json:"message,omitempty"`
	Error            string `json:"error,omitempty"`
	Details          string `json:"details,omitempty"`
	ItemID           string `json:"itemId,omitempty"`
	Contact          string `json:"contact,omitempty"`
	RegistrationType string `json:"registrationType,omitempty"`
}

// healthResponse is the GET liveness body.
type healthResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
