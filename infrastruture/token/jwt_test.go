package token

import (
	"crypto/rand"
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func secret(t *testing.T) string {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	require.NoError(t, err)
	return base64.URLEncoding.EncodeToString(bytes)
}

func TestJwtService(t *testing.T) {
	secretKey := secret(t)
	svc := NewJwtService(secretKey, "vinom-mines")

	t.Run("Generate and Decode session token", func(t *testing.T) {
		id := uuid.New()
		token, err := svc.Generate(map[string]interface{}{"sessionID": id.String()}, 5*time.Minute)
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := svc.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, id.String(), claims["sessionID"])
		assert.Equal(t, "vinom-mines", claims["iss"])
	})

	t.Run("Decode invalid token", func(t *testing.T) {
		_, err := svc.Decode("invalidTokenString")
		assert.Error(t, err)
	})

	t.Run("Decode expired token", func(t *testing.T) {
		token, err := svc.Generate(map[string]interface{}{"sessionID": uuid.NewString()}, -time.Minute)
		require.NoError(t, err)

		_, err = svc.Decode(token)
		assert.Error(t, err)
	})

	t.Run("Claims cannot override the issuer", func(t *testing.T) {
		token, err := svc.Generate(map[string]interface{}{"iss": "someone-else"}, time.Minute)
		require.NoError(t, err)

		claims, err := svc.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, "vinom-mines", claims["iss"])
	})

	t.Run("Reject other issuers and keys", func(t *testing.T) {
		other := NewJwtService(secretKey, "someone-else")
		token, err := other.Generate(map[string]interface{}{}, time.Minute)
		require.NoError(t, err)
		_, err = svc.Decode(token)
		assert.ErrorIs(t, err, ErrInvalidToken)

		forged := NewJwtService(secret(t), "vinom-mines")
		token, err = forged.Generate(map[string]interface{}{}, time.Minute)
		require.NoError(t, err)
		_, err = svc.Decode(token)
		assert.Error(t, err)
	})
}
