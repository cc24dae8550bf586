package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/myflix/apiserver/internal/storage"
	"github.com/myflix/apiserver/types"
)

// ErrPostersDisabled is returned when no object-storage backend is
// configured for poster images.
var ErrPostersDisabled = errors.New("poster storage is not configured")

// ErrPosterNotFound is returned when a movie exists but has no
// uploaded poster.
var ErrPosterNotFound = errors.New("poster not found")

// MovieRepository defines persistence operations for movies.
type MovieRepository interface {
	List(ctx context.Context) ([]types.Movie, error)
	GetByTitle(ctx context.Context, title string) (types.Movie, error)
	SetPosterKey(ctx context.Context, id int, key string) error
}

// GenreRepository defines persistence operations for genres.
type GenreRepository interface {
	GetByName(ctx context.Context, name string) (types.Genre, error)
}

// DirectorRepository defines persistence operations for directors.
type DirectorRepository interface {
	GetByName(ctx context.Context, name string) (types.Director, error)
}

// CatalogService encapsulates read access to movies, genres, and
// directors, plus poster storage.
type CatalogService struct {
	movies    MovieRepository
	genres    GenreRepository
	directors DirectorRepository
	posters   storage.ObjectStorage
}

// NewCatalogService constructs a CatalogService. posters may be nil,
// in which case the poster operations report ErrPostersDisabled.
func NewCatalogService(
	movies MovieRepository,
	genres GenreRepository,
	directors DirectorRepository,
	posters storage.ObjectStorage,
) *CatalogService {
	return &CatalogService{
		movies:    movies,
		genres:    genres,
		directors: directors,
		posters:   posters,
	}
}

func (s *CatalogService) ListMovies(ctx context.Context) ([]types.Movie, error) {
	return s.movies.List(ctx)
}

func (s *CatalogService) GetMovie(ctx context.Context, title string) (types.Movie, error) {
	return s.movies.GetByTitle(ctx, title)
}

func (s *CatalogService) GetGenre(ctx context.Context, name string) (types.Genre, error) {
	return s.genres.GetByName(ctx, name)
}

func (s *CatalogService) GetDirector(ctx context.Context, name string) (types.Director, error) {
	return s.directors.GetByName(ctx, name)
}

// UploadPoster stores poster bytes for the movie with the given title
// and records the object key on the movie record.
func (s *CatalogService) UploadPoster(ctx context.Context, title string, r io.Reader, size int64, contentType string) (types.Movie, error) {
	if s.posters == nil {
		return types.Movie{}, ErrPostersDisabled
	}

	movie, err := s.movies.GetByTitle(ctx, title)
	if err != nil {
		return types.Movie{}, err
	}

	key := posterKey(movie.ID)
	if err := s.posters.Put(ctx, key, r, size, contentType); err != nil {
		return types.Movie{}, err
	}
	if err := s.movies.SetPosterKey(ctx, movie.ID, key); err != nil {
		return types.Movie{}, err
	}

	movie.PosterKey = key
	return movie, nil
}

// GetPoster opens a reader over the movie's stored poster.
func (s *CatalogService) GetPoster(ctx context.Context, title string) (io.ReadCloser, error) {
	if s.posters == nil {
		return nil, ErrPostersDisabled
	}

	movie, err := s.movies.GetByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if movie.PosterKey == "" {
		return nil, ErrPosterNotFound
	}
	return s.posters.Get(ctx, movie.PosterKey)
}

func posterKey(movieID int) string {
	return fmt.Sprintf("posters/%d", movieID)
}
