package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubdirectory/internal/domain"
)

func TestJWT_IssueClaims(t *testing.T) {
	secret := "test-secret"
	tokens := NewJWT(secret)

	token, err := tokens.Issue(domain.User{ID: "u-123", Username: "ann", Role: domain.RoleAdmin}, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(*jwtClaims)
	require.True(t, ok)
	assert.Equal(t, "u-123", claims.Subject)
	assert.Equal(t, "ann", claims.Username)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestJWT_Verify(t *testing.T) {
	tokens := NewJWT("test-secret")
	valid, err := tokens.Issue(domain.User{ID: "u-1", Username: "ann", Role: domain.RoleMember}, time.Hour)
	require.NoError(t, err)
	expired, err := tokens.Issue(domain.User{ID: "u-1"}, -time.Minute)
	require.NoError(t, err)
	foreign, err := NewJWT("other-secret").Issue(domain.User{ID: "u-1"}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"valid", valid, false},
		{"expired", expired, true},
		{"wrong secret", foreign, true},
		{"garbage", "not-a-token", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := tokens.Verify(tt.token)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, &domain.User{ID: "u-1", Username: "ann", Role: domain.RoleMember}, user)
		})
	}
}

func TestJWT_VerifyRejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewJWT("test-secret").Verify(s)
	require.Error(t, err)
}
