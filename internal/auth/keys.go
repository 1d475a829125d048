package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"
)

// LoadKeyPair parses PEM encoded RSA keys. Literal "\n" sequences, as they
// appear in single-line environment values, are expanded first. An empty
// public key is derived from the private key.
func LoadKeyPair(privatePEM, publicPEM string) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privatePEM = expandNewlines(privatePEM)
	publicPEM = expandNewlines(publicPEM)
	if privatePEM == "" {
		return nil, nil, errors.New("private key is required")
	}

	private, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privatePEM))
	if err != nil {
		return nil, nil, fmt.Errorf("parse private key: %w", err)
	}
	if publicPEM == "" {
		return private, &private.PublicKey, nil
	}

	public, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicPEM))
	if err != nil {
		return nil, nil, fmt.Errorf("parse public key: %w", err)
	}
	if public.N.Cmp(private.PublicKey.N) != 0 || public.E != private.PublicKey.E {
		return nil, nil, errors.New("public key does not match private key")
	}
	return private, public, nil
}

func expandNewlines(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `\n`, "\n"))
}
