package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrongPassword(t *testing.T) {
	valid := []string{"Passw0rd", "Segura123", "aB3defgh", "Tr4nsaccion!"}
	for _, p := range valid {
		assert.True(t, StrongPassword(p), "%q should pass the policy", p)
	}

	invalid := []string{
		"",
		"corta1A",     // 7 chars
		"minusculas1", // no upper
		"MAYUSCULAS1", // no lower
		"SinDigitos",  // no digit
		"12345678",    // digits only
	}
	for _, p := range invalid {
		assert.False(t, StrongPassword(p), "%q should fail the policy", p)
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Passw0rd")
	require.NoError(t, err)
	assert.NotEqual(t, "Passw0rd", hash)

	assert.True(t, CheckPassword(hash, "Passw0rd"))
	assert.False(t, CheckPassword(hash, "passw0rd"))
	assert.False(t, CheckPassword(hash, ""))
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	principal := Principal{ID: 42, Email: "cliente@tienda.local", Rol: "Cliente"}
	token, err := issuer.Generate(principal)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, principal, parsed)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour)
	other := NewTokenIssuer("secret-b", time.Hour)

	token, err := issuer.Generate(Principal{ID: 1, Email: "a@b.c", Rol: "Admin"})
	require.NoError(t, err)

	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Generate(Principal{ID: 1, Email: "a@b.c", Rol: "Cliente"})
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	_, err := issuer.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
