package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/myflix/apiserver/internal/events"
	"github.com/myflix/apiserver/internal/services"
	"github.com/myflix/apiserver/internal/store"
)

// UserHandler provides registration and owner-gated user resource
// endpoints.
type UserHandler struct {
	userService *services.UserService
	events      *events.Publisher
}

// NewUserHandler constructs a UserHandler. events may be nil.
func NewUserHandler(userService *services.UserService, events *events.Publisher) *UserHandler {
	return &UserHandler{
		userService: userService,
		events:      events,
	}
}

// UserRouter registers user routes on the given router. Every route
// addressing a specific user runs behind the auth and ownership
// middleware.
func UserRouter(r chi.Router, handler *UserHandler, authMiddleware func(http.Handler) http.Handler) {
	r.Post("/", handler.Register)
	r.Route("/{username}", func(r chi.Router) {
		r.Use(authMiddleware, RequireOwner)
		r.Get("/", handler.GetUser)
		r.Put("/", handler.UpdateUser)
		r.Delete("/", handler.DeleteUser)
		r.Post("/favorites", handler.AddFavorite)
		r.Delete("/favorites/{movieID}", handler.RemoveFavorite)
	})
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Birthday string `json:"birthday"`
}

type UpdateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Birthday string `json:"birthday"`
}

type AddFavoriteRequest struct {
	MovieID string `json:"movie_id"`
}

// Register creates a new user account.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.Birthday = strings.TrimSpace(req.Birthday)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	user, err := h.userService.Register(r.Context(), services.RegisterParams{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Birthday: req.Birthday,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			writeError(w, http.StatusBadRequest, "username already exists")
		case errors.Is(err, services.ErrInvalidBirthday):
			writeError(w, http.StatusBadRequest, "invalid birthday, expected YYYY-MM-DD")
		default:
			writeError(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	h.events.UserRegistered(r.Context(), user.Username)
	writeJSON(w, http.StatusCreated, user)
}

// GetUser returns the addressed user's profile.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.userService.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateUser applies a partial profile update. The password is
// re-hashed only when the request carries one.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.userService.Update(r.Context(), username, services.UpdateParams{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
		Email:    strings.TrimSpace(req.Email),
		Birthday: strings.TrimSpace(req.Birthday),
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, services.ErrUsernameTaken):
			writeError(w, http.StatusBadRequest, "username already exists")
		case errors.Is(err, services.ErrInvalidBirthday):
			writeError(w, http.StatusBadRequest, "invalid birthday, expected YYYY-MM-DD")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update user")
		}
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// DeleteUser deregisters the addressed user. Outstanding tokens for
// the account stop working immediately because every request resolves
// the principal from the store.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	if err := h.userService.Delete(r.Context(), username); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	h.events.UserDeleted(r.Context(), username)
	writeJSON(w, http.StatusOK, MessageResponse{Message: fmt.Sprintf("user %s has been deleted", username)})
}

// AddFavorite appends a movie id to the addressed user's favorites.
func (h *UserHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req AddFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.MovieID = strings.TrimSpace(req.MovieID)
	if req.MovieID == "" {
		writeError(w, http.StatusBadRequest, "movie_id is required")
		return
	}

	user, err := h.userService.AddFavorite(r.Context(), username, req.MovieID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update favorites")
		return
	}

	h.events.FavoritesChanged(r.Context(), username, req.MovieID)
	writeJSON(w, http.StatusOK, user)
}

// RemoveFavorite removes every occurrence of a movie id from the
// addressed user's favorites.
func (h *UserHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	movieID := chi.URLParam(r, "movieID")

	user, err := h.userService.RemoveFavorite(r.Context(), username, movieID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update favorites")
		return
	}

	h.events.FavoritesChanged(r.Context(), username, movieID)
	writeJSON(w, http.StatusOK, user)
}
