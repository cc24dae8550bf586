package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/myflix/apiserver/types"
)

// GenreRepository handles persistence for genres.
type GenreRepository struct {
	db *sql.DB
}

func NewGenreRepository(db *sql.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

// GetByName looks a genre up case-insensitively.
func (r *GenreRepository) GetByName(ctx context.Context, name string) (types.Genre, error) {
	const query = `
		SELECT id, name, description
		FROM genres
		WHERE name ILIKE $1`
	var genre types.Genre
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&genre.ID,
		&genre.Name,
		&genre.Description,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Genre{}, ErrNotFound
		}
		return types.Genre{}, err
	}
	return genre, nil
}
