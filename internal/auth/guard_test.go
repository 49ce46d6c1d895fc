package auth

import (
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santoshjammi/funds-trackon-sub001/internal/domain/meeting"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func tokenExpiringIn(t *testing.T, d time.Duration) string {
	return signedToken(t, jwt.MapClaims{
		"sub": "user@fund.example",
		"exp": time.Now().Add(d).Unix(),
	})
}

func tokenWithoutExpiry(t *testing.T) string {
	return signedToken(t, jwt.MapClaims{"sub": "user@fund.example"})
}

func newTestGuard(provider Provider, skew time.Duration) *Guard {
	return NewGuard(provider, skew, zerolog.Nop())
}

func TestExpiryOf(t *testing.T) {
	t.Parallel()
	g := newTestGuard(StaticProvider(""), 0)

	exp, ok := g.ExpiryOf(tokenExpiringIn(t, time.Hour))
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	_, ok = g.ExpiryOf(tokenWithoutExpiry(t))
	assert.False(t, ok, "missing exp claim means no expiry")

	_, ok = g.ExpiryOf("not-a-jwt")
	assert.False(t, ok, "undecodable token means no expiry, never expired-now")
}

func TestIsExpired(t *testing.T) {
	t.Parallel()
	g := newTestGuard(StaticProvider(""), 30*time.Second)

	assert.True(t, g.IsExpired(tokenExpiringIn(t, -time.Hour)))
	assert.True(t, g.IsExpired(tokenExpiringIn(t, 10*time.Second)), "skew counts an about-to-expire token as expired")
	assert.False(t, g.IsExpired(tokenExpiringIn(t, time.Hour)))
	assert.False(t, g.IsExpired(tokenWithoutExpiry(t)))
	assert.False(t, g.IsExpired("garbage"))
}

func TestIsExpired_NoExpiryAnySkew(t *testing.T) {
	t.Parallel()
	tok := tokenWithoutExpiry(t)
	for _, skew := range []time.Duration{0, time.Minute, 24 * time.Hour, 365 * 24 * time.Hour} {
		g := newTestGuard(StaticProvider(""), skew)
		assert.False(t, g.IsExpired(tok), "skew %s", skew)
	}
}

func TestCheckStart(t *testing.T) {
	t.Parallel()

	t.Run("no token blocks", func(t *testing.T) {
		g := newTestGuard(StaticProvider(""), 0)
		_, err := g.CheckStart()
		require.ErrorIs(t, err, meeting.ErrAuthRequired)
	})

	t.Run("expired token warns but allows", func(t *testing.T) {
		g := newTestGuard(StaticProvider(tokenExpiringIn(t, -time.Hour)), 0)
		warning, err := g.CheckStart()
		require.NoError(t, err)
		assert.NotEmpty(t, warning)
	})

	t.Run("valid token proceeds quietly", func(t *testing.T) {
		g := newTestGuard(StaticProvider(tokenExpiringIn(t, time.Hour)), 0)
		warning, err := g.CheckStart()
		require.NoError(t, err)
		assert.Empty(t, warning)
	})

	t.Run("token without expiry proceeds quietly", func(t *testing.T) {
		g := newTestGuard(StaticProvider(tokenWithoutExpiry(t)), 0)
		warning, err := g.CheckStart()
		require.NoError(t, err)
		assert.Empty(t, warning)
	})
}

func TestCheckSubmit(t *testing.T) {
	t.Parallel()

	t.Run("no token fails", func(t *testing.T) {
		g := newTestGuard(StaticProvider(""), 0)
		_, err := g.CheckSubmit()
		require.ErrorIs(t, err, meeting.ErrAuthRequired)
	})

	t.Run("expired token fails", func(t *testing.T) {
		g := newTestGuard(StaticProvider(tokenExpiringIn(t, -time.Hour)), 0)
		_, err := g.CheckSubmit()
		require.ErrorIs(t, err, meeting.ErrAuthRequired)
	})

	t.Run("valid token returned", func(t *testing.T) {
		tok := tokenExpiringIn(t, time.Hour)
		g := newTestGuard(StaticProvider(tok), 0)
		got, err := g.CheckSubmit()
		require.NoError(t, err)
		assert.Equal(t, tok, got)
	})

	t.Run("no expiry never blocks", func(t *testing.T) {
		tok := tokenWithoutExpiry(t)
		g := newTestGuard(StaticProvider(tok), time.Hour)
		got, err := g.CheckSubmit()
		require.NoError(t, err)
		assert.Equal(t, tok, got)
	})
}

func TestChainProvider(t *testing.T) {
	t.Parallel()

	chain := ChainProvider{StaticProvider(""), StaticProvider("from-second")}
	tok, ok := chain.CurrentToken()
	require.True(t, ok)
	assert.Equal(t, "from-second", tok)

	empty := ChainProvider{StaticProvider(""), StaticProvider("")}
	_, ok = empty.CurrentToken()
	assert.False(t, ok)
}

func TestFileProvider(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := dir + "/token"
	require.NoError(t, os.WriteFile(path, []byte("  file-token\n"), 0o600))

	tok, ok := FileProvider(path).CurrentToken()
	require.True(t, ok)
	assert.Equal(t, "file-token", tok, "token file contents are trimmed")

	_, ok = FileProvider(dir + "/missing").CurrentToken()
	assert.False(t, ok)
}
