package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockwise/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateParse(t *testing.T) {
	opts := jwt.VerifyOptions{Issuer: "https://auth.example.com", Audience: "authenticated"}
	token, err := jwt.Generate(secret, jwt.Identity{UserID: "u-1", Email: "ana@example.com", Role: "authenticated"}, opts, time.Hour)
	require.NoError(t, err)

	id, err := jwt.Parse(secret, token, opts)
	require.NoError(t, err)
	assert.Equal(t, "u-1", id.UserID)
	assert.Equal(t, "ana@example.com", id.Email)
}

func TestParse_Rechazos(t *testing.T) {
	good, err := jwt.Generate(secret, jwt.Identity{UserID: "u-1"}, jwt.VerifyOptions{}, time.Hour)
	require.NoError(t, err)

	_, err = jwt.Parse("otro-secret", good, jwt.VerifyOptions{})
	assert.Error(t, err, "firma incorrecta")

	_, err = jwt.Parse(secret, good, jwt.VerifyOptions{Audience: "authenticated"})
	assert.Error(t, err, "audience requerida")

	expired, err := jwt.Generate(secret, jwt.Identity{UserID: "u-1"}, jwt.VerifyOptions{}, -time.Minute)
	require.NoError(t, err)
	_, err = jwt.Parse(secret, expired, jwt.VerifyOptions{})
	assert.Error(t, err)

	anon, err := jwt.Generate(secret, jwt.Identity{}, jwt.VerifyOptions{}, time.Hour)
	require.NoError(t, err)
	_, err = jwt.Parse(secret, anon, jwt.VerifyOptions{})
	assert.ErrorIs(t, err, jwt.ErrMissingSubject)

	_, err = jwt.Parse("", good, jwt.VerifyOptions{})
	assert.Error(t, err)
}
