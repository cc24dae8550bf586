// Package auth issues and verifies the bearer tokens that back every
// authenticated request. Tokens are stateless HS256 JWTs signed with a
// single process-wide secret; nothing is stored server-side.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/myflix/apiserver/types"
)

var (
	// ErrMalformed means the token could not be parsed into
	// header/payload/signature segments.
	ErrMalformed = errors.New("malformed token")

	// ErrSignatureInvalid means the payload does not match the
	// signature under the configured secret.
	ErrSignatureInvalid = errors.New("invalid token signature")

	// ErrExpired means the token's expiration time has passed.
	ErrExpired = errors.New("token expired")
)

// Claims carries the registered claims plus the principal's stable
// numeric id. The subject claim holds the username.
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"uid"`
}

// IssueToken mints a signed token for the given user. The subject is
// the username, the uid claim is the user's id, and the expiration is
// ttl from now.
func IssueToken(user types.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: user.ID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyToken checks a token's structure, signature, and expiry, and
// returns its claims. The caller is responsible for resolving the
// embedded user id against the store; the claims snapshot alone never
// authorizes a request.
func VerifyToken(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignatureInvalid
		default:
			return nil, ErrSignatureInvalid
		}
	}
	if !token.Valid {
		return nil, ErrSignatureInvalid
	}
	return claims, nil
}
