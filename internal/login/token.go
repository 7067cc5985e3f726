package login

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the session-token claims the host portal issues in its
// signed cookie. The token is signed and verified by the host; this side
// only reads the identifying claims, re-derived per navigation and never
// persisted beyond the profile cache.
type TokenClaims struct {
	// UserID is the user's PM identifier
	UserID string `json:"g"`

	// Name is the user's display name
	Name string `json:"n"`

	// Rank is the user's rank code
	Rank string `json:"t"`

	// UnitCode is the user's unit
	UnitCode string `json:"u"`

	jwt.RegisteredClaims
}

// DecodeSessionToken extracts the claims from a session cookie value without
// verifying the signature (the host owns the signing key).
func DecodeSessionToken(cookie string) (*TokenClaims, error) {
	if cookie == "" {
		return nil, fmt.Errorf("empty session token")
	}

	claims := &TokenClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(cookie, claims); err != nil {
		return nil, fmt.Errorf("malformed session token: %w", err)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("session token missing user id claim")
	}
	return claims, nil
}

// TokenSource supplies the current session cookie value, empty when the
// cookie is not present yet.
type TokenSource func() (string, error)

// waitForToken polls the token source until a cookie shows up or the retry
// budget runs out.
func waitForToken(source TokenSource, retries int, interval time.Duration) (string, error) {
	var lastErr error
	for i := 0; i < retries; i++ {
		cookie, err := source()
		if err == nil && cookie != "" {
			return cookie, nil
		}
		lastErr = err
		time.Sleep(interval)
	}
	if lastErr != nil {
		return "", fmt.Errorf("session token not available: %w", lastErr)
	}
	return "", fmt.Errorf("session token not available after %d attempts", retries)
}
