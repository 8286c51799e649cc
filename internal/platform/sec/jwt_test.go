// Copyright (c) 2026 Sable. All rights reserved.

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sablebot/sable/internal/platform/sec"
)

// writeTestKeyPair generates a throwaway RSA key pair as PEM files.
func writeTestKeyPair(t *testing.T) (privPath, pubPath string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath = filepath.Join(dir, "private.pem")
	pubPath = filepath.Join(dir, "public.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0o600))

	pubBytes, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0o600))

	return privPath, pubPath
}

func TestTokenService_RoundTrip(t *testing.T) {
	privPath, pubPath := writeTestKeyPair(t)

	service, err := sec.NewTokenService(privPath, pubPath, "sable.chat")
	require.NoError(t, err)

	token, err := service.GenerateAccessToken(1234567890, time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1234567890), claims.UserID)
	assert.Equal(t, "sable.chat", claims.Issuer)
}

func TestTokenService_Expired(t *testing.T) {
	privPath, pubPath := writeTestKeyPair(t)

	service, err := sec.NewTokenService(privPath, pubPath, "sable.chat")
	require.NoError(t, err)

	token, err := service.GenerateAccessToken(1, -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}

func TestTokenService_Garbage(t *testing.T) {
	privPath, pubPath := writeTestKeyPair(t)

	service, err := sec.NewTokenService(privPath, pubPath, "sable.chat")
	require.NoError(t, err)

	_, err = service.VerifyToken("not-a-token")
	assert.Error(t, err)
}

func TestTokenService_MissingKeyFile(t *testing.T) {
	_, err := sec.NewTokenService("/nonexistent/priv.pem", "/nonexistent/pub.pem", "sable.chat")
	assert.Error(t, err)
}
