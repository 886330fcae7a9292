package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)

	u := User{Password: hash}

	assert.True(t, u.VerifyPassword("s3cret!"))
	assert.False(t, u.VerifyPassword("s3cret"))
	assert.False(t, u.NeedsRehash())
}

func TestPasswordLegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)

	u := User{Password: string(legacy)}

	assert.True(t, u.NeedsRehash())
	assert.True(t, u.VerifyPassword("password"))
	assert.False(t, u.VerifyPassword("Password"))
}

func TestPasswordGarbageHash(t *testing.T) {
	u := User{Password: "not-a-hash"}

	assert.False(t, u.VerifyPassword("anything"))
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.False(t, (&PersonalAccessToken{}).Expired(now))
	assert.True(t, (&PersonalAccessToken{ExpiresAt: &past}).Expired(now))
	assert.True(t, (&PersonalAccessToken{ExpiresAt: &now}).Expired(now))
	assert.False(t, (&PersonalAccessToken{ExpiresAt: &future}).Expired(now))
}
