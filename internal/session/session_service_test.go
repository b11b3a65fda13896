package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_IssueAndParse(t *testing.T) {
	svc := NewService("secret", time.Hour)

	token, err := svc.Issue(context.Background())
	require.NoError(t, err)
	require.NoError(t, ValidateID(token.SessionID))
	assert.NotEmpty(t, token.AccessToken)

	sessionID, err := svc.Parse(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, token.SessionID, sessionID)
}

func TestService_Parse(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := &service{secret: []byte("secret"), ttl: time.Hour, now: func() time.Time { return now }}

	token, err := svc.Issue(context.Background())
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := &service{secret: []byte("secret"), ttl: time.Hour, now: func() time.Time { return now.Add(2 * time.Hour) }}
		_, err := later.Parse(token.AccessToken)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("wrong_secret", func(t *testing.T) {
		other := &service{secret: []byte("other"), ttl: time.Hour, now: svc.now}
		_, err := other.Parse(token.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Parse("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("session_id_not_uuid", func(t *testing.T) {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			claimSessionID: "admin",
			"exp":          now.Add(time.Hour).Unix(),
		}).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = svc.Parse(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none_algorithm_rejected", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			claimSessionID: uuid.NewString(),
			"exp":          now.Add(time.Hour).Unix(),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Parse(unsigned)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID(uuid.NewString()))
	assert.ErrorIs(t, ValidateID(""), ErrInvalidSessionID)
	assert.ErrorIs(t, ValidateID("abc"), ErrInvalidSessionID)
}
