package handlers

import "net/http"

// Healthz reports process liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Home greets unauthenticated visitors.
func Home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Welcome to the myFlix API"})
}
