package services

import (
	"context"
	"errors"
	"testing"

	"github.com/myflix/apiserver/internal/store"
	"github.com/myflix/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepo is an in-memory UserRepository keyed by username.
type fakeUserRepo struct {
	users  map[string]types.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]types.User{}, nextID: 1}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (types.User, error) {
	user, ok := f.users[username]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	if _, ok := f.users[user.Username]; ok {
		return types.User{}, store.ErrDuplicate
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.Username] = user
	return user, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user types.User) (types.User, error) {
	for username, existing := range f.users {
		if existing.ID == user.ID {
			if user.Username != username {
				if _, ok := f.users[user.Username]; ok {
					return types.User{}, store.ErrDuplicate
				}
				delete(f.users, username)
			}
			f.users[user.Username] = user
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) AddFavorite(ctx context.Context, username, movieID string) (types.User, error) {
	user, ok := f.users[username]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	user.FavoriteMovies = append(user.FavoriteMovies, movieID)
	f.users[username] = user
	return user, nil
}

func (f *fakeUserRepo) RemoveFavorite(ctx context.Context, username, movieID string) (types.User, error) {
	user, ok := f.users[username]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	kept := user.FavoriteMovies[:0]
	for _, id := range user.FavoriteMovies {
		if id != movieID {
			kept = append(kept, id)
		}
	}
	user.FavoriteMovies = kept
	f.users[username] = user
	return user, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, username string) error {
	if _, ok := f.users[username]; !ok {
		return store.ErrNotFound
	}
	delete(f.users, username)
	return nil
}

func TestRegister_HashesPassword(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newFakeUserRepo())
	user, err := svc.Register(context.Background(), RegisterParams{
		Username: "nina",
		Password: "pw123",
		Email:    "n@x.com",
		Birthday: "1990-01-01",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if user.PasswordHash == "pw123" {
		t.Fatalf("password stored in cleartext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw123")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw124")); err == nil {
		t.Fatalf("wrong password verified against stored hash")
	}
	if user.Birthday == nil || user.Birthday.Format("2006-01-02") != "1990-01-01" {
		t.Fatalf("unexpected birthday: %v", user.Birthday)
	}
	if len(user.FavoriteMovies) != 0 {
		t.Fatalf("expected empty favorites, got %v", user.FavoriteMovies)
	}
}

func TestRegister_UsernameTaken(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newFakeUserRepo())
	params := RegisterParams{Username: "nina", Password: "pw", Email: "n@x.com"}

	if _, err := svc.Register(context.Background(), params); err != nil {
		t.Fatalf("first Register error: %v", err)
	}
	if _, err := svc.Register(context.Background(), params); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestRegister_InvalidBirthday(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), RegisterParams{
		Username: "nina",
		Password: "pw",
		Email:    "n@x.com",
		Birthday: "not-a-date",
	})
	if !errors.Is(err, ErrInvalidBirthday) {
		t.Fatalf("expected ErrInvalidBirthday, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("record created despite invalid birthday")
	}
}

func TestRegister_BirthdayOptional(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newFakeUserRepo())
	user, err := svc.Register(context.Background(), RegisterParams{
		Username: "nina",
		Password: "pw",
		Email:    "n@x.com",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if user.Birthday != nil {
		t.Fatalf("expected nil birthday, got %v", user.Birthday)
	}
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newFakeUserRepo())
	if _, err := svc.Register(context.Background(), RegisterParams{
		Username: "nina", Password: "pw123", Email: "n@x.com",
	}); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	user, err := svc.Authenticate(context.Background(), "nina", "pw123")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if user.Username != "nina" {
		t.Fatalf("unexpected principal: %q", user.Username)
	}

	if _, err := svc.Authenticate(context.Background(), "nina", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "nobody", "pw123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestUpdate_RehashOnlyWhenPasswordSupplied(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newFakeUserRepo())
	created, err := svc.Register(context.Background(), RegisterParams{
		Username: "nina", Password: "pw123", Email: "n@x.com",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	updated, err := svc.Update(context.Background(), "nina", UpdateParams{Email: "new@x.com"})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.PasswordHash != created.PasswordHash {
		t.Fatalf("hash changed without a new password")
	}
	if updated.Email != "new@x.com" {
		t.Fatalf("email not updated: %q", updated.Email)
	}

	updated, err = svc.Update(context.Background(), "nina", UpdateParams{Password: "pw456"})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.PasswordHash == created.PasswordHash {
		t.Fatalf("hash unchanged after password update")
	}
	if _, err := svc.Authenticate(context.Background(), "nina", "pw456"); err != nil {
		t.Fatalf("Authenticate with new password: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "nina", "pw123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password still accepted")
	}
}

func TestUpdate_RenameToTakenUsername(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newFakeUserRepo())
	for _, username := range []string{"alice", "bob"} {
		if _, err := svc.Register(context.Background(), RegisterParams{
			Username: username, Password: "pw", Email: username + "@x.com",
		}); err != nil {
			t.Fatalf("Register %s error: %v", username, err)
		}
	}

	if _, err := svc.Update(context.Background(), "alice", UpdateParams{Username: "bob"}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestFavorites_AddAndRemove(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newFakeUserRepo())
	if _, err := svc.Register(context.Background(), RegisterParams{
		Username: "nina", Password: "pw", Email: "n@x.com",
	}); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	user, err := svc.AddFavorite(context.Background(), "nina", "movie42")
	if err != nil {
		t.Fatalf("AddFavorite error: %v", err)
	}
	user, err = svc.AddFavorite(context.Background(), "nina", "movie42")
	if err != nil {
		t.Fatalf("AddFavorite error: %v", err)
	}
	if len(user.FavoriteMovies) != 2 {
		t.Fatalf("expected duplicate favorites to be kept, got %v", user.FavoriteMovies)
	}

	user, err = svc.RemoveFavorite(context.Background(), "nina", "movie42")
	if err != nil {
		t.Fatalf("RemoveFavorite error: %v", err)
	}
	if len(user.FavoriteMovies) != 0 {
		t.Fatalf("expected all occurrences removed, got %v", user.FavoriteMovies)
	}
}
