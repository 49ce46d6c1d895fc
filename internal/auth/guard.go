package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/santoshjammi/funds-trackon-sub001/internal/domain/meeting"
)

// Guard decides whether recording and upload actions may proceed given the
// ambient token. Tokens are re-read from the provider on every check, never
// cached across checks.
type Guard struct {
	provider Provider
	skew     time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

func NewGuard(provider Provider, skew time.Duration, logger zerolog.Logger) *Guard {
	return &Guard{
		provider: provider,
		skew:     skew,
		logger:   logger,
		now:      time.Now,
	}
}

// CurrentToken reads the ambient token once.
func (g *Guard) CurrentToken() (string, bool) {
	return g.provider.CurrentToken()
}

// ExpiryOf decodes the token's exp claim without verifying the signature
// (the recorder holds no keys; verification is the backend's job). A
// malformed token or one with no exp claim has no known expiry and must
// never be treated as already expired.
func (g *Guard) ExpiryOf(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		g.logger.Debug().Err(err).Msg("token not decodable, treating as non-expiring")
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// IsExpired is true only when a decodable expiry exists and now+skew has
// reached it.
func (g *Guard) IsExpired(token string) bool {
	exp, ok := g.ExpiryOf(token)
	if !ok {
		return false
	}
	return !g.now().Add(g.skew).Before(exp)
}

// CheckStart gates starting a recording. No token at all blocks the start;
// an expired or expiring token only warns — the user may keep capturing
// locally and re-authenticate before submitting.
func (g *Guard) CheckStart() (warning string, err error) {
	token, ok := g.provider.CurrentToken()
	if !ok {
		return "", meeting.ErrAuthRequired
	}
	if g.IsExpired(token) {
		return "Your CRM session has expired. Recording will continue locally; log in again before submitting.", nil
	}
	return "", nil
}

// CheckSubmit gates transmitting a recording and returns the token to
// attach. Uploading with a missing or expired token would only bounce off
// the backend, so it fails here with the local copy untouched.
func (g *Guard) CheckSubmit() (string, error) {
	token, ok := g.provider.CurrentToken()
	if !ok {
		return "", meeting.ErrAuthRequired
	}
	if g.IsExpired(token) {
		return "", meeting.ErrAuthRequired
	}
	return token, nil
}
