package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/myflix/apiserver/internal/auth"
	"github.com/myflix/apiserver/internal/services"
	"github.com/myflix/apiserver/internal/store"
	"github.com/myflix/apiserver/types"
)

// AuthHandler provides the login endpoint and the authentication
// middleware shared by all protected routes.
type AuthHandler struct {
	userService *services.UserService
	secret      []byte
	tokenTTL    time.Duration
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		secret:      []byte(jwtSecret),
		tokenTTL:    tokenTTL,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, handler *AuthHandler) {
	r.Post("/login", handler.Login)
}

// RequireAuth verifies the bearer token and resolves the principal
// from the store by the embedded user id, so a deleted account is
// rejected even while its tokens are still unexpired. The resolved
// principal is injected into the request context.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := bearerToken(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		claims, err := auth.VerifyToken(tokenString, h.secret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		principal, err := h.userService.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to load user")
			return
		}

		ctx := context.WithValue(r.Context(), contextPrincipalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireOwner allows a request through only when the authenticated
// principal's username equals the {username} path parameter, compared
// exactly and case-sensitively. There is no admin override.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := principalFromContext(r.Context())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if principal.Username != chi.URLParam(r, "username") {
			writeError(w, http.StatusForbidden, "permission denied")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}

// Login verifies credentials and returns a JWT valid for the
// configured TTL.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing credentials")
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to authenticate")
		return
	}

	token, err := auth.IssueToken(user, h.secret, h.tokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
}

func bearerToken(r *http.Request) (string, error) {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if authHeader == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
