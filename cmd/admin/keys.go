package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"strings"
	"time"

	"learntrack/internal/config"
	"learntrack/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenEmail   string
	tokenTTL     time.Duration
	jwksURL      string
)

// tokenCmd signs a development token with JWT_SECRET
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development access token",
	Long:  `Sign an HS256 token with JWT_SECRET. Only works when the secret is a shared key, not a PEM public key.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if strings.HasPrefix(strings.TrimSpace(cfg.JWTSecret), "-----BEGIN") {
			return errors.New("JWT_SECRET is a public key; tokens must come from the identity provider")
		}
		signed, err := signToken(cfg.JWTSecret, tokenSubject, tokenEmail, tokenTTL, time.Now())
		if err != nil {
			return err
		}
		fmt.Println(signed)
		return nil
	},
}

// jwksPEMCmd converts the first ES256 key of a JWKS document
var jwksPEMCmd = &cobra.Command{
	Use:   "jwks-pem",
	Short: "Convert a JWKS signing key to PEM",
	Long:  `Fetch a JWKS document and print its ES256 key as a PEM public key suitable for JWT_SECRET.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, jwksURL, nil)
		if err != nil {
			return err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to fetch JWKS: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("failed to fetch JWKS: status %d", resp.StatusCode)
		}

		var set jwks
		if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
			return fmt.Errorf("failed to parse JWKS: %w", err)
		}
		out, err := set.ecPEM()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "sub", "", "User id to put in the subject claim (required)")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Optional email claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("sub")

	jwksPEMCmd.Flags().StringVar(&jwksURL, "url", "http://127.0.0.1:54321/auth/v1/.well-known/jwks.json", "JWKS endpoint")
}

func signToken(secret, subject, email string, ttl time.Duration, now time.Time) (string, error) {
	claims := middleware.Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

type jwk struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y"`
	Alg string `json:"alg"`
}

type jwks struct {
	Keys []jwk `json:"keys"`
}

func (s jwks) ecPEM() ([]byte, error) {
	for _, k := range s.Keys {
		if k.Kty != "EC" || k.Alg != "ES256" {
			continue
		}
		x, err := base64.RawURLEncoding.DecodeString(k.X)
		if err != nil {
			return nil, fmt.Errorf("failed to decode x coordinate: %w", err)
		}
		y, err := base64.RawURLEncoding.DecodeString(k.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to decode y coordinate: %w", err)
		}
		der, err := x509.MarshalPKIXPublicKey(&ecdsa.PublicKey{
			Curve: elliptic.P256(),
			X:     new(big.Int).SetBytes(x),
			Y:     new(big.Int).SetBytes(y),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal public key: %w", err)
		}
		return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
	}
	return nil, errors.New("no ES256 key in JWKS")
}
