package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/estim-games/estim-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "ESTIM API"},
		JWT: config.JWTConfig{
			Secret:             strings.Repeat("s", 32),
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: 24 * time.Hour,
		},
	}
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager(testConfig())

	access, err := m.GenerateAccessToken(7, "gamer", true)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "gamer", claims.Username)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "user:7", claims.Subject)

	refresh, err := m.GenerateRefreshToken(7, "gamer")
	require.NoError(t, err)

	claims, err = m.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin)
}

func TestJWTManager_TokenTypeEnforced(t *testing.T) {
	m := NewJWTManager(testConfig())

	access, err := m.GenerateAccessToken(1, "a", false)
	require.NoError(t, err)
	refresh, err := m.GenerateRefreshToken(1, "a")
	require.NoError(t, err)

	_, err = m.ValidateRefreshToken(access)
	assert.ErrorContains(t, err, "expected refresh")

	_, err = m.ValidateAccessToken(refresh)
	assert.ErrorContains(t, err, "expected access")
}

func TestJWTManager_RejectsForeignAndExpiredTokens(t *testing.T) {
	cfg := testConfig()
	m := NewJWTManager(cfg)

	other := testConfig()
	other.JWT.Secret = strings.Repeat("x", 32)
	foreign, err := NewJWTManager(other).GenerateAccessToken(1, "a", false)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(foreign)
	assert.Error(t, err)

	expiredCfg := testConfig()
	expiredCfg.JWT.AccessTokenExpiry = -time.Minute
	expired, err := NewJWTManager(expiredCfg).GenerateAccessToken(1, "a", false)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(expired)
	assert.Error(t, err)

	_, err = m.ValidateAccessToken("not.a.token")
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "abc", ExtractTokenFromHeader("bearer  abc "))
	assert.Empty(t, ExtractTokenFromHeader("Basic abc"))
	assert.Empty(t, ExtractTokenFromHeader("Bearer"))
	assert.Empty(t, ExtractTokenFromHeader(""))
}

func TestPasswordManager(t *testing.T) {
	p := NewPasswordManager(bcrypt.MinCost)

	hash, err := p.HashPassword("estim2024")
	require.NoError(t, err)
	assert.NotEqual(t, "estim2024", hash)

	assert.NoError(t, p.VerifyPassword("estim2024", hash))
	assert.Error(t, p.VerifyPassword("estim2025", hash))
}

func TestPasswordManager_Validate(t *testing.T) {
	p := NewPasswordManager(0)

	tests := []struct {
		password string
		wantErr  string
	}{
		{password: "short1", wantErr: "at least 8"},
		{password: "onlyletters", wantErr: "number"},
		{password: "12345678", wantErr: "letter"},
		{password: strings.Repeat("a1", 40), wantErr: "no more than"},
		{password: "letmein42"},
	}

	for _, tt := range tests {
		err := p.ValidatePassword(tt.password)
		if tt.wantErr == "" {
			assert.NoError(t, err, tt.password)
			continue
		}
		assert.ErrorContains(t, err, tt.wantErr, tt.password)
	}
}
