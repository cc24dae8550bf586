package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/myflix/apiserver/types"
)

type contextKey string

const contextPrincipalKey contextKey = "principal"

// ErrorResponse is a simple error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a simple confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}

func principalFromContext(ctx context.Context) (types.User, error) {
	principal, ok := ctx.Value(contextPrincipalKey).(types.User)
	if !ok {
		return types.User{}, errors.New("missing principal")
	}
	return principal, nil
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
