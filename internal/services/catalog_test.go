package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/myflix/apiserver/internal/store"
	"github.com/myflix/apiserver/types"
)

type fakeMovieRepo struct {
	movies map[string]types.Movie
}

func (f *fakeMovieRepo) List(ctx context.Context) ([]types.Movie, error) {
	movies := make([]types.Movie, 0, len(f.movies))
	for _, movie := range f.movies {
		movies = append(movies, movie)
	}
	return movies, nil
}

func (f *fakeMovieRepo) GetByTitle(ctx context.Context, title string) (types.Movie, error) {
	movie, ok := f.movies[title]
	if !ok {
		return types.Movie{}, store.ErrNotFound
	}
	return movie, nil
}

func (f *fakeMovieRepo) SetPosterKey(ctx context.Context, id int, key string) error {
	for title, movie := range f.movies {
		if movie.ID == id {
			movie.PosterKey = key
			f.movies[title] = movie
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeGenreRepo struct{}

func (fakeGenreRepo) GetByName(ctx context.Context, name string) (types.Genre, error) {
	if name != "Drama" {
		return types.Genre{}, store.ErrNotFound
	}
	return types.Genre{ID: 1, Name: "Drama"}, nil
}

type fakeDirectorRepo struct{}

func (fakeDirectorRepo) GetByName(ctx context.Context, name string) (types.Director, error) {
	return types.Director{}, store.ErrNotFound
}

// fakeObjectStorage keeps objects in a map.
type fakeObjectStorage struct {
	objects map[string][]byte
}

func (f *fakeObjectStorage) EnsureBucket(ctx context.Context) error { return nil }

func (f *fakeObjectStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeObjectStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such object")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeObjectStorage) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeObjectStorage) Bucket() string { return "test-bucket" }

func TestUploadAndGetPoster(t *testing.T) {
	t.Parallel()

	movies := &fakeMovieRepo{movies: map[string]types.Movie{
		"Inception": {ID: 7, Title: "Inception"},
	}}
	posters := &fakeObjectStorage{objects: map[string][]byte{}}
	svc := NewCatalogService(movies, fakeGenreRepo{}, fakeDirectorRepo{}, posters)

	movie, err := svc.UploadPoster(context.Background(), "Inception", bytes.NewReader([]byte("png-bytes")), -1, "image/png")
	if err != nil {
		t.Fatalf("UploadPoster error: %v", err)
	}
	if movie.PosterKey != "posters/7" {
		t.Fatalf("unexpected poster key: %q", movie.PosterKey)
	}
	if movies.movies["Inception"].PosterKey != "posters/7" {
		t.Fatalf("poster key not persisted")
	}

	poster, err := svc.GetPoster(context.Background(), "Inception")
	if err != nil {
		t.Fatalf("GetPoster error: %v", err)
	}
	defer poster.Close()
	data, err := io.ReadAll(poster)
	if err != nil {
		t.Fatalf("read poster: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("unexpected poster contents: %q", data)
	}
}

func TestGetPoster_NotUploaded(t *testing.T) {
	t.Parallel()

	movies := &fakeMovieRepo{movies: map[string]types.Movie{
		"Inception": {ID: 7, Title: "Inception"},
	}}
	svc := NewCatalogService(movies, fakeGenreRepo{}, fakeDirectorRepo{}, &fakeObjectStorage{objects: map[string][]byte{}})

	if _, err := svc.GetPoster(context.Background(), "Inception"); !errors.Is(err, ErrPosterNotFound) {
		t.Fatalf("expected ErrPosterNotFound, got %v", err)
	}
}

func TestPosters_Disabled(t *testing.T) {
	t.Parallel()

	movies := &fakeMovieRepo{movies: map[string]types.Movie{
		"Inception": {ID: 7, Title: "Inception"},
	}}
	svc := NewCatalogService(movies, fakeGenreRepo{}, fakeDirectorRepo{}, nil)

	if _, err := svc.UploadPoster(context.Background(), "Inception", bytes.NewReader(nil), -1, ""); !errors.Is(err, ErrPostersDisabled) {
		t.Fatalf("expected ErrPostersDisabled, got %v", err)
	}
	if _, err := svc.GetPoster(context.Background(), "Inception"); !errors.Is(err, ErrPostersDisabled) {
		t.Fatalf("expected ErrPostersDisabled, got %v", err)
	}
}

func TestGetGenre_CaseHandledByRepo(t *testing.T) {
	t.Parallel()

	svc := NewCatalogService(&fakeMovieRepo{movies: map[string]types.Movie{}}, fakeGenreRepo{}, fakeDirectorRepo{}, nil)

	genre, err := svc.GetGenre(context.Background(), "Drama")
	if err != nil {
		t.Fatalf("GetGenre error: %v", err)
	}
	if genre.Name != "Drama" {
		t.Fatalf("unexpected genre: %q", genre.Name)
	}

	if _, err := svc.GetDirector(context.Background(), "Nolan"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
