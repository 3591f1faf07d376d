package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/service-requests/internal/domain"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 15)

	token, exp, err := tm.GenerateToken(42, domain.SubjectTypeAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.SubjectID)
	assert.Equal(t, domain.SubjectTypeAdmin, claims.Subject)
	assert.Equal(t, "42", claims.RegisteredClaims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenManager_UniqueIDs(t *testing.T) {
	tm := NewTokenManager("secret", 15)

	first, _, err := tm.GenerateToken(1, domain.SubjectTypeUser)
	require.NoError(t, err)
	second, _, err := tm.GenerateToken(1, domain.SubjectTypeUser)
	require.NoError(t, err)

	a, err := tm.ParseToken(first)
	require.NoError(t, err)
	b, err := tm.ParseToken(second)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := NewTokenManager("secret", 15)
	token, _, err := tm.GenerateToken(1, domain.SubjectTypeUser)
	require.NoError(t, err)

	testCases := []struct {
		name  string
		mgr   *TokenManager
		token string
	}{
		{name: "error: wrong secret", mgr: NewTokenManager("other", 15), token: token},
		{name: "error: garbage", mgr: tm, token: "not.a.jwt"},
		{name: "error: expired", mgr: tm, token: func() string {
			old := NewTokenManager("secret", 1)
			old.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
			s, _, err := old.GenerateToken(1, domain.SubjectTypeUser)
			require.NoError(t, err)
			return s
		}()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.mgr.ParseToken(tc.token)
			assert.Error(t, err)
		})
	}
}

func TestNewTokenManager_DefaultTTL(t *testing.T) {
	tm := NewTokenManager("secret", 0)
	assert.Equal(t, time.Hour, tm.ttl)
}
