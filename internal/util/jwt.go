package util

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// AppMetadata is the provider block Supabase auth embeds in every access token.
type AppMetadata struct {
	Provider  string   `json:"provider"`
	Providers []string `json:"providers"`
}

// Claims is the Supabase access token payload.
type Claims struct {
	Email       string      `json:"email"`
	Role        string      `json:"role"`
	AppMetadata AppMetadata `json:"app_metadata"`
	jwt.RegisteredClaims
}

// HasProvider reports whether the identity has the given provider linked.
func (c *Claims) HasProvider(provider string) bool {
	if c.AppMetadata.Provider == provider {
		return true
	}
	for _, p := range c.AppMetadata.Providers {
		if p == provider {
			return true
		}
	}
	return false
}

func parsePublicKey(pemKey string) (any, error) {
	block, _ := pem.Decode([]byte(pemKey))
	if block == nil {
		return nil, errors.New("failed to decode PEM block containing public key")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return pub, nil
}

// ParseECDSAPublicKey parses a PEM-encoded ECDSA public key
func ParseECDSAPublicKey(pemKey string) (*ecdsa.PublicKey, error) {
	pub, err := parsePublicKey(pemKey)
	if err != nil {
		return nil, err
	}
	ecdsaPub, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not ECDSA")
	}
	return ecdsaPub, nil
}

// ParseRSAPublicKey parses a PEM-encoded RSA public key
func ParseRSAPublicKey(pemKey string) (*rsa.PublicKey, error) {
	pub, err := parsePublicKey(pemKey)
	if err != nil {
		return nil, err
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not RSA")
	}
	return rsaPub, nil
}

// keyFor picks the verification key for the token's algorithm. Supabase projects sign with
// the shared HS256 secret by default and with asymmetric keys once JWT signing keys are enabled.
func keyFor(alg, keyMaterial string) (jwt.Keyfunc, error) {
	var key any
	switch alg {
	case "HS256", "HS384", "HS512":
		// A PEM public key must never double as an HMAC secret.
		if strings.HasPrefix(strings.TrimSpace(keyMaterial), "-----BEGIN") {
			return nil, fmt.Errorf("unexpected signing method: %s (expected asymmetric)", alg)
		}
		key = []byte(keyMaterial)
	case "RS256", "RS384", "RS512":
		pub, err := ParseRSAPublicKey(keyMaterial)
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
		}
		key = pub
	case "ES256", "ES384", "ES512":
		pub, err := ParseECDSAPublicKey(keyMaterial)
		if err != nil {
			return nil, fmt.Errorf("failed to parse ECDSA public key: %w", err)
		}
		key = pub
	default:
		return nil, fmt.Errorf("unsupported signing algorithm: %s", alg)
	}
	return func(*jwt.Token) (any, error) { return key, nil }, nil
}

// SupabaseAudience is the aud claim of signed-in user tokens. Anon and service-role keys carry no such audience.
const SupabaseAudience = "authenticated"

// ValidateJWT verifies a Supabase access token and returns its claims.
func ValidateJWT(tokenString string, keyMaterial string) (*Claims, error) {
	unverified, _, err := jwt.NewParser().ParseUnverified(tokenString, &Claims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token header: %w", err)
	}
	alg, ok := unverified.Header["alg"].(string)
	if !ok {
		return nil, errors.New("token header missing 'alg' field")
	}

	keyFunc, err := keyFor(alg, keyMaterial)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, keyFunc,
		jwt.WithValidMethods([]string{alg}),
		jwt.WithExpirationRequired(),
		jwt.WithAudience(SupabaseAudience),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	return claims, nil
}
