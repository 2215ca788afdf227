// Package token issues and validates the JWTs used to authenticate
// grammar-management requests.
package token

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/synparse/server/dao"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "synparse-server"

// Generate issues a new JWT for u, signed with a key derived from secret and
// the user's current password hash and logout time. Rotating a user's
// password or logging them out therefore invalidates every token issued
// before that point.
func Generate(secret []byte, u dao.User) (string, error) {
	claims := &jwt.MapClaims{
		"iss": issuer,
		"exp": time.Now().Add(time.Hour).Unix(),
		"sub": u.ID.String(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	return tok.SignedString(signingKey(secret, u))
}

// Get extracts the bearer token from req's Authorization header.
func Get(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return strings.TrimSpace(authParts[1]), nil
}

// Validate parses and verifies tok, looking up the subject user via db, and
// returns that user if the token's signature and claims check out.
func Validate(ctx context.Context, tok string, secret []byte, db dao.UserRepository) (dao.User, error) {
	var user dao.User

	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		subj, err := t.Claims.GetSubject()
		if err != nil {
			return nil, fmt.Errorf("cannot get subject: %w", err)
		}

		id, err := uuid.Parse(subj)
		if err != nil {
			return nil, fmt.Errorf("cannot parse subject UUID: %w", err)
		}

		user, err = db.GetByID(ctx, id)
		if err != nil {
			if err == dao.ErrNotFound {
				return nil, fmt.Errorf("subject does not exist")
			}
			return nil, fmt.Errorf("subject could not be validated")
		}

		return signingKey(secret, user), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(issuer), jwt.WithLeeway(time.Minute))

	if err != nil {
		return dao.User{}, err
	}

	return user, nil
}

// signingKey derives a per-user signing key so that a password change or
// logout invalidates every token issued before it.
func signingKey(secret []byte, u dao.User) []byte {
	var key []byte
	key = append(key, secret...)
	key = append(key, []byte(u.Password)...)
	key = append(key, []byte(fmt.Sprintf("%d", u.LastLogoutTime.Unix()))...)
	return key
}
