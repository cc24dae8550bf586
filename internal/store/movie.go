package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/myflix/apiserver/types"
)

// MovieRepository handles persistence for movies.
type MovieRepository struct {
	db *sql.DB
}

func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

const movieColumns = `id, title, description, genre_id, director_id, actors, release_year, image_url, poster_key, featured, created_at, updated_at`

func (r *MovieRepository) List(ctx context.Context) ([]types.Movie, error) {
	const query = `
		SELECT ` + movieColumns + `
		FROM movies
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := make([]types.Movie, 0)
	for rows.Next() {
		var movie types.Movie
		if err := rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.Description,
			&movie.GenreID,
			&movie.DirectorID,
			pq.Array(&movie.Actors),
			&movie.ReleaseYear,
			&movie.ImageURL,
			&movie.PosterKey,
			&movie.Featured,
			&movie.CreatedAt,
			&movie.UpdatedAt,
		); err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return movies, nil
}

func (r *MovieRepository) GetByTitle(ctx context.Context, title string) (types.Movie, error) {
	const query = `
		SELECT ` + movieColumns + `
		FROM movies
		WHERE title = $1`
	var movie types.Movie
	err := r.db.QueryRowContext(ctx, query, title).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.GenreID,
		&movie.DirectorID,
		pq.Array(&movie.Actors),
		&movie.ReleaseYear,
		&movie.ImageURL,
		&movie.PosterKey,
		&movie.Featured,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Movie{}, ErrNotFound
		}
		return types.Movie{}, err
	}
	return movie, nil
}

// SetPosterKey records the object-storage key of an uploaded poster.
func (r *MovieRepository) SetPosterKey(ctx context.Context, id int, key string) error {
	const query = `
		UPDATE movies
		SET poster_key = $1,
			updated_at = $2
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, key, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
