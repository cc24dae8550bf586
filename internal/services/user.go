package services

import (
	"context"
	"errors"
	"time"

	"github.com/myflix/apiserver/internal/store"
	"github.com/myflix/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

const birthdayLayout = "2006-01-02"

// dummyHash is a valid bcrypt hash compared against when a login names
// an unknown user, so the miss path costs the same as a real verify.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, user types.User) (types.User, error)
	AddFavorite(ctx context.Context, username, movieID string) (types.User, error)
	RemoveFavorite(ctx context.Context, username, movieID string) (types.User, error)
	Delete(ctx context.Context, username string) error
}

// UserService encapsulates account use-cases: registration, credential
// verification, profile updates, favorites, and deregistration.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// RegisterParams is the input to Register. Birthday is optional; when
// present it must be a YYYY-MM-DD date.
type RegisterParams struct {
	Username string
	Password string
	Email    string
	Birthday string
}

// Register hashes the password and persists a new user with an empty
// favorites list. A username collision yields ErrUsernameTaken; the
// uniqueness guarantee comes from the store's unique index, not from a
// lookup here, so concurrent registrations cannot both succeed.
func (s *UserService) Register(ctx context.Context, params RegisterParams) (types.User, error) {
	birthday, err := parseBirthday(params.Birthday)
	if err != nil {
		return types.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, err
	}

	user, err := s.repo.Create(ctx, types.User{
		Username:       params.Username,
		Email:          params.Email,
		Birthday:       birthday,
		FavoriteMovies: []string{},
		PasswordHash:   string(hashed),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return types.User{}, ErrUsernameTaken
		}
		return types.User{}, err
	}
	return user, nil
}

// Authenticate verifies a username/password pair. Unknown usernames
// and wrong passwords both fold into ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (types.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// UpdateParams carries a partial profile update. Empty fields are left
// untouched; the password is re-hashed only when one is supplied.
type UpdateParams struct {
	Username string
	Password string
	Email    string
	Birthday string
}

// Update applies a partial profile update to the user addressed by
// username. Renaming to an existing username yields ErrUsernameTaken.
func (s *UserService) Update(ctx context.Context, username string, params UpdateParams) (types.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return types.User{}, err
	}

	if params.Username != "" {
		user.Username = params.Username
	}
	if params.Email != "" {
		user.Email = params.Email
	}
	if params.Birthday != "" {
		birthday, err := parseBirthday(params.Birthday)
		if err != nil {
			return types.User{}, err
		}
		user.Birthday = birthday
	}
	if params.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
		if err != nil {
			return types.User{}, err
		}
		user.PasswordHash = string(hashed)
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return types.User{}, ErrUsernameTaken
		}
		return types.User{}, err
	}
	return updated, nil
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (types.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *UserService) AddFavorite(ctx context.Context, username, movieID string) (types.User, error) {
	return s.repo.AddFavorite(ctx, username, movieID)
}

func (s *UserService) RemoveFavorite(ctx context.Context, username, movieID string) (types.User, error) {
	return s.repo.RemoveFavorite(ctx, username, movieID)
}

func (s *UserService) Delete(ctx context.Context, username string) error {
	return s.repo.Delete(ctx, username)
}

func parseBirthday(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	birthday, err := time.Parse(birthdayLayout, raw)
	if err != nil {
		return nil, ErrInvalidBirthday
	}
	return &birthday, nil
}
