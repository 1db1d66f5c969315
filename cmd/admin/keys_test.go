package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"
	"time"

	"learntrack/internal/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignTokenValidates(t *testing.T) {
	signed, err := signToken("dev-secret", "instructor-9", "i9@example.com", time.Hour, time.Now())
	require.NoError(t, err)

	claims, err := middleware.ValidateJWT(signed, "dev-secret")
	require.NoError(t, err)
	assert.Equal(t, "instructor-9", claims.Subject)
	assert.Equal(t, "i9@example.com", claims.Email)

	expired, err := signToken("dev-secret", "instructor-9", "", time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = middleware.ValidateJWT(expired, "dev-secret")
	assert.Error(t, err)
}

func TestJWKSToPEM(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	coord := func(b []byte) string { return base64.RawURLEncoding.EncodeToString(b) }
	set := jwks{Keys: []jwk{
		{Kty: "RSA", Alg: "RS256"},
		{Kty: "EC", Crv: "P-256", Alg: "ES256", X: coord(key.X.FillBytes(make([]byte, 32))), Y: coord(key.Y.FillBytes(make([]byte, 32)))},
	}}

	out, err := set.ecPEM()
	require.NoError(t, err)

	block, _ := pem.Decode(out)
	require.NotNil(t, block)
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	require.NoError(t, err)
	assert.True(t, key.PublicKey.Equal(pub))

	_, err = jwks{}.ecPEM()
	assert.Error(t, err)
}
