package session

import (
	"testing"

	"chrono_store_front/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseToken(t *testing.T) {
	Init("secret-de-test")

	sess := &models.Session{ID: "sess-42", Role: "user"}
	token, err := IssueToken(sess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sessionID, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-42", sessionID)
}

func TestParseTokenWrongSecret(t *testing.T) {
	Init("premier-secret")
	token, err := IssueToken(&models.Session{ID: "sess-1"})
	require.NoError(t, err)

	Init("autre-secret")
	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenGarbage(t *testing.T) {
	Init("secret-de-test")

	for _, bad := range []string{"", "abc", "a.b.c"} {
		_, err := ParseToken(bad)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}
