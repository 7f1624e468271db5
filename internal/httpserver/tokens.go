// internal/httpserver/tokens.go
//
// Game tokens bind a client to the game it created.
// Each token is an HS256 JWT whose subject is the game ID; select,
// snapshot and abandon requests must present it as a Bearer token.

package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errNoToken = errors.New("missing bearer token")

type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// issue signs a token for gameID and returns it with its expiry.
func (ti tokenIssuer) issue(gameID string) (string, time.Time, error) {
	now := ti.now()
	exp := now.Add(ti.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   gameID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString(ti.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return ss, exp, nil
}

// verify checks signature, expiry and that the token belongs to gameID.
func (ti tokenIssuer) verify(tokenStr, gameID string) error {
	if tokenStr == "" {
		return errNoToken
	}
	_, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) { return ti.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(gameID),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.now),
	)
	return err
}

// bearer extracts the token from "Authorization: Bearer <token>".
func bearer(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}
