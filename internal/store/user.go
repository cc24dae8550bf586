package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/myflix/apiserver/types"
)

const uniqueViolation = "23505"

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, birthday, favorite_movies, password_hash, created_at, updated_at`

func scanUser(row *sql.Row) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Birthday,
		pq.Array(&user.FavoriteMovies),
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

// Create inserts a new user. A username collision on the unique index
// is reported as ErrDuplicate; concurrent registrations with the same
// username are serialized by the index, so at most one succeeds.
func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.FavoriteMovies == nil {
		user.FavoriteMovies = []string{}
	}

	const query = `
		INSERT INTO users (username, email, birthday, favorite_movies, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		user.Username,
		user.Email,
		user.Birthday,
		pq.Array(user.FavoriteMovies),
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID); err != nil {
		return types.User{}, mapUniqueViolation(err)
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user types.User) (types.User, error) {
	user.UpdatedAt = time.Now()

	const query = `
		UPDATE users
		SET username = $1,
			email = $2,
			birthday = $3,
			password_hash = $4,
			updated_at = $5
		WHERE id = $6`
	result, err := r.db.ExecContext(
		ctx,
		query,
		user.Username,
		user.Email,
		user.Birthday,
		user.PasswordHash,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return types.User{}, mapUniqueViolation(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.User{}, err
	}
	if affected == 0 {
		return types.User{}, ErrNotFound
	}
	return user, nil
}

// AddFavorite appends a movie id to the user's favorites in a single
// statement, so concurrent mutations of the same record cannot lose
// updates. Duplicate ids are permitted.
func (r *UserRepository) AddFavorite(ctx context.Context, username, movieID string) (types.User, error) {
	const query = `
		UPDATE users
		SET favorite_movies = array_append(favorite_movies, $2),
			updated_at = $3
		WHERE username = $1
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, query, username, movieID, time.Now()))
}

// RemoveFavorite removes every occurrence of a movie id from the
// user's favorites in a single statement.
func (r *UserRepository) RemoveFavorite(ctx context.Context, username, movieID string) (types.User, error) {
	const query = `
		UPDATE users
		SET favorite_movies = array_remove(favorite_movies, $2),
			updated_at = $3
		WHERE username = $1
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, query, username, movieID, time.Now()))
}

func (r *UserRepository) Delete(ctx context.Context, username string) error {
	const query = `DELETE FROM users WHERE username = $1`
	result, err := r.db.ExecContext(ctx, query, username)
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

func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}
