package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := Generate("secret", "u1", "local2", RoleAdmin, "imarket", 5)
	require.NoError(t, err)

	claims, err := Parse("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "local2", claims.Store)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := Generate("secret", "u1", "local1", RoleSeller, "imarket", 5)
	require.NoError(t, err)
	_, err = Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := Generate("secret", "u1", "local1", RoleSeller, "imarket", -1)
	require.NoError(t, err)
	_, err = Parse("secret", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", "u1", "local1", RoleSeller, "imarket", 5)
	assert.Error(t, err)
}
