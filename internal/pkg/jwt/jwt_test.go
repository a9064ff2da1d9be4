package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := New("test_secret_key_32_characters_min", time.Hour)

	token, err := svc.GenerateToken("u1", "traveler")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "traveler", claims.Role)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := New("secret-one-aaaaaaaaaaaaaaaaaaaaaa", time.Hour).GenerateToken("u1", "admin")
	assert.NoError(t, err)

	_, err = New("secret-two-bbbbbbbbbbbbbbbbbbbbbb", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidate_Expired(t *testing.T) {
	svc := New("test_secret_key_32_characters_min", -time.Minute)

	token, err := svc.GenerateToken("u1", "traveler")
	assert.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidate_Garbage(t *testing.T) {
	svc := New("test_secret_key_32_characters_min", time.Hour)

	_, err := svc.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}
