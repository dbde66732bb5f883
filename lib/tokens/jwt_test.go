package tokens

import (
	"testing"

	"github.com/messhub/messhub.go/common"
	"github.com/stretchr/testify/assert"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := []byte("testsecret")

	token, err := GenerateAccessToken(secret, 3600, 42, common.RoleStudent)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	id, role, err := ParseToken(secret, token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, common.RoleStudent, role)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken([]byte("testsecret"), 3600, 42, common.RoleAdmin)
	assert.NoError(t, err)

	_, _, err = ParseToken([]byte("othersecret"), token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	secret := []byte("testsecret")
	token, err := GenerateAccessToken(secret, -60, 42, common.RoleAdmin)
	assert.NoError(t, err)

	_, _, err = ParseToken(secret, token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, _, err := ParseToken([]byte("testsecret"), "not.a.token")
	assert.Error(t, err)
}
