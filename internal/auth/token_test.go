package auth

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/myflix/apiserver/types"
)

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	user := types.User{ID: 42, Username: "nina"}

	token, err := IssueToken(user, secret, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	claims, err := VerifyToken(token, secret)
	if err != nil {
		t.Fatalf("VerifyToken error: %v", err)
	}
	if claims.Subject != "nina" {
		t.Fatalf("subject mismatch: got %q want %q", claims.Subject, "nina")
	}
	if claims.UserID != 42 {
		t.Fatalf("uid mismatch: got %d want %d", claims.UserID, 42)
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	token, err := IssueToken(types.User{ID: 1, Username: "u1"}, secret, -1*time.Second)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	_, err = VerifyToken(token, secret)
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := IssueToken(types.User{ID: 2, Username: "u2"}, []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	_, err = VerifyToken(token, []byte("wrong-secret"))
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestVerifyToken_TamperedPayload(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	token, err := IssueToken(types.User{ID: 3, Username: "nina"}, secret, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	tampered := bytes.Replace(payload, []byte("nina"), []byte("ninb"), 1)
	if bytes.Equal(tampered, payload) {
		t.Fatalf("payload tampering had no effect")
	}
	parts[1] = base64.RawURLEncoding.EncodeToString(tampered)

	_, err = VerifyToken(strings.Join(parts, "."), secret)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestVerifyToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := VerifyToken("not.a.jwt", []byte("k"))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}

	_, err = VerifyToken("garbage", []byte("k"))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}
