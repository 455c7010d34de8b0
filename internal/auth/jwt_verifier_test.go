package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/domain"
	"quill/internal/domain/models"
)

func testVerifier(t *testing.T) (*JWKSVerifier, *ecdsa.PrivateKey) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	kf := func(*jwt.Token) (any, error) { return &key.PublicKey, nil }
	return NewJWTVerifierWithKeyfunc(kf, slog.New(slog.NewTextHandler(io.Discard, nil))), key
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims models.Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

func TestVerifyToken(t *testing.T) {
	v, key := testVerifier(t)
	valid := models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "editor@example.com",
	}

	t.Run("valid", func(t *testing.T) {
		claims, err := v.VerifyToken(sign(t, jwt.SigningMethodES256, key, valid))
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.GetUserID())
		assert.Equal(t, "editor@example.com", claims.Email)
	})

	t.Run("expired", func(t *testing.T) {
		c := valid
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := v.VerifyToken(sign(t, jwt.SigningMethodES256, key, c))
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("missing subject", func(t *testing.T) {
		c := valid
		c.Subject = ""
		_, err := v.VerifyToken(sign(t, jwt.SigningMethodES256, key, c))
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("anonymous", func(t *testing.T) {
		c := valid
		c.Role = "anon"
		_, err := v.VerifyToken(sign(t, jwt.SigningMethodES256, key, c))
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("hmac rejected", func(t *testing.T) {
		_, err := v.VerifyToken(sign(t, jwt.SigningMethodHS256, []byte("secret"), valid))
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.VerifyToken("not-a-token")
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}
