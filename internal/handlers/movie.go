package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/myflix/apiserver/internal/services"
	"github.com/myflix/apiserver/internal/store"
)

const maxPosterBytes = 16 << 20

// CatalogHandler provides read endpoints for movies, genres, and
// directors, plus poster upload/download.
type CatalogHandler struct {
	catalog *services.CatalogService
}

// NewCatalogHandler constructs a handler with the provided service.
func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// CatalogRouter registers catalog routes on the given router. All of
// them require authentication.
func CatalogRouter(r chi.Router, handler *CatalogHandler, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/movies", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", handler.ListMovies)
		r.Get("/{title}", handler.GetMovie)
		r.Get("/{title}/poster", handler.GetPoster)
		r.Put("/{title}/poster", handler.UploadPoster)
	})
	r.With(authMiddleware).Get("/genres/{name}", handler.GetGenre)
	r.With(authMiddleware).Get("/directors/{name}", handler.GetDirector)
}

func (h *CatalogHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.catalog.ListMovies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list movies")
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

func (h *CatalogHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := h.catalog.GetMovie(r.Context(), chi.URLParam(r, "title"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "movie not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch movie")
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (h *CatalogHandler) GetGenre(w http.ResponseWriter, r *http.Request) {
	genre, err := h.catalog.GetGenre(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "genre not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch genre")
		return
	}
	writeJSON(w, http.StatusOK, genre)
}

func (h *CatalogHandler) GetDirector(w http.ResponseWriter, r *http.Request) {
	director, err := h.catalog.GetDirector(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "director not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch director")
		return
	}
	writeJSON(w, http.StatusOK, director)
}

// UploadPoster stores the request body as the movie's poster image.
func (h *CatalogHandler) UploadPoster(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	body := http.MaxBytesReader(w, r.Body, maxPosterBytes)
	defer body.Close()

	movie, err := h.catalog.UploadPoster(r.Context(), chi.URLParam(r, "title"), body, -1, contentType)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "movie not found")
		case errors.Is(err, services.ErrPostersDisabled):
			writeError(w, http.StatusServiceUnavailable, "poster storage unavailable")
		default:
			writeError(w, http.StatusInternalServerError, "failed to store poster")
		}
		return
	}

	writeJSON(w, http.StatusOK, movie)
}

// GetPoster streams the movie's stored poster image.
func (h *CatalogHandler) GetPoster(w http.ResponseWriter, r *http.Request) {
	poster, err := h.catalog.GetPoster(r.Context(), chi.URLParam(r, "title"))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound), errors.Is(err, services.ErrPosterNotFound):
			writeError(w, http.StatusNotFound, "poster not found")
		case errors.Is(err, services.ErrPostersDisabled):
			writeError(w, http.StatusServiceUnavailable, "poster storage unavailable")
		default:
			writeError(w, http.StatusInternalServerError, "failed to fetch poster")
		}
		return
	}
	defer poster.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, poster)
}
