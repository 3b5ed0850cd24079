package jwt

import (
	"testing"
	"time"

	"attendance-lms/config"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/require"
)

func setup() {
	config.Set(&config.Config{JWT: config.JWT{AccessSecret: "secret", AccessExpire: 3600}})
}

func TestGenerateAndParse(t *testing.T) {
	setup()
	token, err := GenerateToken(Claims{LmsUserID: 7, CourseID: 3, UserName: "tanaka"})
	require.NoError(t, err)

	claims, ok := ParseToken(token)
	require.True(t, ok)
	require.Equal(t, uint(7), claims.LmsUserID)
	require.Equal(t, uint(3), claims.CourseID)
	require.Equal(t, "tanaka", claims.UserName)
}

func TestParseRejectsExpiredAndForeignTokens(t *testing.T) {
	setup()
	expired, err := GenerateToken(Claims{
		LmsUserID:      7,
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(-time.Minute).Unix()},
	})
	require.NoError(t, err)
	_, ok := ParseToken(expired)
	require.False(t, ok)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{LmsUserID: 7}).SignedString([]byte("other"))
	require.NoError(t, err)
	_, ok = ParseToken(foreign)
	require.False(t, ok)

	_, ok = ParseToken("not-a-token")
	require.False(t, ok)
}
