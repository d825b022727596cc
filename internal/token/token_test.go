package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestManager(secret string) *Manager {
	return NewManager(Config{
		SecretKey: secret,
		TTL:       time.Hour,
		Issuer:    "todolist-test",
	})
}

func TestManager_IssueAndVerify(t *testing.T) {
	m := newTestManager("test-secret-key")

	credential, err := m.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, credential)

	accountID, err := m.Verify(credential)
	require.NoError(t, err)
	require.Equal(t, uint64(42), accountID)
}

func TestManager_DefaultTTLIsSevenDays(t *testing.T) {
	m := NewManager(Config{SecretKey: "test-secret-key"})
	require.Equal(t, 7*24*time.Hour, m.TTL())
}

func TestManager_InvalidToken(t *testing.T) {
	m := newTestManager("test-secret-key")

	tests := []struct {
		name       string
		credential string
	}{
		{name: "empty", credential: ""},
		{name: "garbage", credential: "not.a.valid.token"},
		{name: "truncated jwt", credential: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Verify(tt.credential)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestManager_WrongSecretKey(t *testing.T) {
	issuer := newTestManager("secret-key-1")
	verifier := newTestManager("secret-key-2")

	credential, err := issuer.Issue(7)
	require.NoError(t, err)

	_, err = verifier.Verify(credential)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_ExpiredToken(t *testing.T) {
	m := NewManager(Config{
		SecretKey: "test-secret-key",
		TTL:       time.Millisecond,
		Issuer:    "todolist-test",
	})

	credential, err := m.Issue(7)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = m.Verify(credential)
	require.ErrorIs(t, err, ErrExpiredToken)
}
