package config

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenExpiresAt reads the exp claim out of a bearer token without
// verifying the signature; only the server can verify it, we just want
// to know when to warn the user to log in again.
func AccessTokenExpiresAt(accessToken string) (time.Time, bool) {
	if strings.TrimSpace(accessToken) == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time.UTC(), true
}
