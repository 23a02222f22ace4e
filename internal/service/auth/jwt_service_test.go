package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ouvrages/livre-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret      = "test-secret-that-is-long-enough-for-testing"
	wrongTestSecret = "wrong-secret-that-is-long-enough-for-testing"
)

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     config.AuthConfig
		wantErr bool
	}{
		{"valid", config.AuthConfig{JWTSecret: testSecret, TokenLifetimeHours: 1}, false},
		{"short secret", config.AuthConfig{JWTSecret: "short", TokenLifetimeHours: 1}, true},
		{"zero lifetime", config.AuthConfig{JWTSecret: testSecret}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, err := NewJWTService(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, svc)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, svc)
		})
	}
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	lifetime := 8760 * time.Hour
	svc := newHMACJWTService(testSecret, lifetime, func() time.Time { return fixedTime })

	token, err := svc.GenerateToken(context.Background(), 42, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(lifetime).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)

	other, err := svc.GenerateToken(context.Background(), 42, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, token, other, "each token carries its own jti")
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	lifetime := time.Hour
	at := func(ts time.Time) func() time.Time { return func() time.Time { return ts } }

	tests := []struct {
		name      string
		setupFunc func() (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func() (JWTService, string) {
				svc := newHMACJWTService(testSecret, lifetime, at(fixedTime))
				token, _ := svc.GenerateToken(context.Background(), 7, "")
				return svc, token
			},
		},
		{
			name: "valid within clock skew",
			setupFunc: func() (JWTService, string) {
				token, _ := newHMACJWTService(testSecret, lifetime, at(fixedTime)).
					GenerateToken(context.Background(), 7, "")
				return newHMACJWTService(testSecret, lifetime, at(fixedTime.Add(lifetime+time.Minute))), token
			},
		},
		{
			name: "expired token",
			setupFunc: func() (JWTService, string) {
				token, _ := newHMACJWTService(testSecret, lifetime, at(fixedTime)).
					GenerateToken(context.Background(), 7, "")
				return newHMACJWTService(testSecret, lifetime, at(fixedTime.Add(lifetime+time.Hour))), token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "invalid signature",
			setupFunc: func() (JWTService, string) {
				token, _ := newHMACJWTService(testSecret, lifetime, at(fixedTime)).
					GenerateToken(context.Background(), 7, "")
				return newHMACJWTService(wrongTestSecret, lifetime, at(fixedTime)), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func() (JWTService, string) {
				return newHMACJWTService(testSecret, lifetime, at(fixedTime)), "this.is.not.a.valid.jwt.token"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "unsigned token",
			setupFunc: func() (JWTService, string) {
				token := jwt.NewWithClaims(jwt.SigningMethodNone, jwtCustomClaims{
					UserID: 7,
					RegisteredClaims: jwt.RegisteredClaims{
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(lifetime)),
					},
				})
				signed, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
				return newHMACJWTService(testSecret, lifetime, at(fixedTime)), signed
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "missing user id",
			setupFunc: func() (JWTService, string) {
				svc := newHMACJWTService(testSecret, lifetime, at(fixedTime))
				token, _ := svc.GenerateToken(context.Background(), 0, "")
				return svc, token
			},
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, token := tt.setupFunc()
			claims, err := svc.ValidateToken(context.Background(), token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, claims)
				assert.Equal(t, int64(7), claims.UserID)
			}
		})
	}
}
