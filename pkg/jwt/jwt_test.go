package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/tu-usuario/user-management-api/pkg/jwt"
)

const (
	testSecret = "test-secret-key"
	testIssuer = "user-management-api-test"
)

func testIdentity() pkgjwt.Identity {
	return pkgjwt.Identity{
		UserID:   7,
		Email:    "ann@x.com",
		Name:     "Ann",
		Username: "ann1",
		Role:     "User",
	}
}

// El token generado debe poder parsearse y conservar todos los claims propios.
func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIdentity(), testIssuer, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "ann@x.com", claims.Email)
	assert.Equal(t, "Ann", claims.Name)
	assert.Equal(t, "ann1", claims.Username)
	assert.Equal(t, "User", claims.Role)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

// Un secret distinto al de la firma debe rechazar el token.
func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIdentity(), testIssuer, 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret", tok)
	assert.Error(t, err)
}

// Un token expirado debe rechazarse.
func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIdentity(), testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err)
}

// Generar sin secret es un error de configuración, no un token firmado con "".
func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", testIdentity(), testIssuer, 60)
	assert.Error(t, err)
}

// Cadenas arbitrarias no son tokens.
func TestParse_TokenMalformado(t *testing.T) {
	_, err := pkgjwt.Parse(testSecret, "no.es.un-token")
	assert.Error(t, err)
}
