package auth

import (
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeKeys(t *testing.T) (string, string) {
	t.Helper()
	key := testPrivateKey(t)
	private := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	public := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return string(private), string(public)
}

func TestLoadKeyPair(t *testing.T) {
	privatePEM, publicPEM := encodeKeys(t)

	private, public, err := LoadKeyPair(privatePEM, publicPEM)
	require.NoError(t, err)
	assert.Equal(t, testPrivateKey(t).N, private.N)
	assert.Equal(t, 0, public.N.Cmp(private.PublicKey.N))
}

func TestLoadKeyPairEscapedNewlines(t *testing.T) {
	privatePEM, publicPEM := encodeKeys(t)
	flat := func(s string) string { return strings.ReplaceAll(s, "\n", `\n`) }

	_, _, err := LoadKeyPair(flat(privatePEM), flat(publicPEM))
	require.NoError(t, err)
}

func TestLoadKeyPairDerivesPublicKey(t *testing.T) {
	privatePEM, _ := encodeKeys(t)

	private, public, err := LoadKeyPair(privatePEM, "")
	require.NoError(t, err)
	assert.Equal(t, &private.PublicKey, public)
}

func TestLoadKeyPairErrors(t *testing.T) {
	privatePEM, _ := encodeKeys(t)

	_, _, err := LoadKeyPair("", "")
	assert.Error(t, err)

	_, _, err = LoadKeyPair("not pem", "")
	assert.Error(t, err)

	other := otherPrivateKey(t)
	pubDER, err := x509.MarshalPKIXPublicKey(&other.PublicKey)
	require.NoError(t, err)
	mismatched := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	_, _, err = LoadKeyPair(privatePEM, string(mismatched))
	assert.ErrorContains(t, err, "does not match")
}
