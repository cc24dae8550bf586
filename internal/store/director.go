package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/myflix/apiserver/types"
)

// DirectorRepository handles persistence for directors.
type DirectorRepository struct {
	db *sql.DB
}

func NewDirectorRepository(db *sql.DB) *DirectorRepository {
	return &DirectorRepository{db: db}
}

// GetByName looks a director up case-insensitively.
func (r *DirectorRepository) GetByName(ctx context.Context, name string) (types.Director, error) {
	const query = `
		SELECT id, name, bio, birth, death
		FROM directors
		WHERE name ILIKE $1`
	var director types.Director
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&director.ID,
		&director.Name,
		&director.Bio,
		&director.Birth,
		&director.Death,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Director{}, ErrNotFound
		}
		return types.Director{}, err
	}
	return director, nil
}
