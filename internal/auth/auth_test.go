package auth

import (
	"testing"
	"time"

	"flightbooking/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	assert.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret"))
}

func TestIssueAndParseToken(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)
	user := &domain.User{ID: "user-1", Username: "ada", Role: domain.RoleAdmin}

	token, err := manager.IssueToken(user, time.Now())
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := manager.ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ada", claims.Username)
	assert.Equal(t, string(domain.RoleAdmin), claims.Role)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestParseToken_Expired(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)
	user := &domain.User{ID: "user-1", Username: "ada", Role: domain.RoleUser}

	token, err := manager.IssueToken(user, time.Now().Add(-2*time.Hour))
	assert.NoError(t, err)

	claims, err := manager.ParseToken(token)
	assert.Nil(t, claims)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestParseToken_WrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour)
	verifier := NewManager("secret-b", time.Hour)
	user := &domain.User{ID: "user-1", Username: "ada", Role: domain.RoleUser}

	token, err := issuer.IssueToken(user, time.Now())
	assert.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)

	_, err := manager.ParseToken("not.a.token")
	assert.Error(t, err)
}
