// Package respond writes the uniform JSON envelope used by every endpoint:
//
//	{"error": false, "status": 200, "body": ...}
//
// Success bodies carry the payload; error bodies carry the user-facing
// message. Handlers never write to the ResponseWriter directly.
package respond

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/user/primer-backend-go/apperror"
)

// Envelope is the response wrapper shared by all endpoints.
type Envelope struct {
	Error  bool `json:"error"`
	Status int  `json:"status"`
	Body   any  `json:"body"`
}

// Success writes a successful envelope with the given status and body.
func Success(w http.ResponseWriter, status int, body any) {
	writeEnvelope(w, Envelope{Error: false, Status: status, Body: body})
}

// Error converts err into the error envelope. Errors that are not *AppError
// are treated as internal and their details withheld from the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("Error interno del servidor", err)
	}
	if appErr.StatusCode() >= http.StatusInternalServerError {
		log.Printf("error handling %s %s: %v", r.Method, r.URL.Path, err)
	}
	writeEnvelope(w, Envelope{Error: true, Status: appErr.StatusCode(), Body: appErr.Message})
}

// ErrorMessage writes an error envelope with an explicit status and message,
// bypassing the apperror mapping. The route-gate middleware uses it for its
// fixed 401 messages.
func ErrorMessage(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, Envelope{Error: true, Status: status, Body: message})
}

func writeEnvelope(w http.ResponseWriter, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.Status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		http.Error(w, `{"error":true,"status":500,"body":"failed to encode response"}`, http.StatusInternalServerError)
	}
}
