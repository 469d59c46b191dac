package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pairchat/errors"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "MySuperSecurePassword!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("WrongPassword", hash)
	req.NoError(err)
	req.False(match)
}

func TestSignupValidation(t *testing.T) {
	req := require.New(t)
	tests := []struct {
		name    string
		req     SignupRequest
		wantErr bool
	}{
		{"Valid request", SignupRequest{"Alice Doe", "test@example.com", "Secret123456!"}, false},
		{"Invalid email", SignupRequest{"Alice Doe", "notanemail", "Secret123456!"}, true},
		{"Password too short", SignupRequest{"Alice Doe", "test@example.com", "short"}, true},
		{"Full name too short", SignupRequest{"A", "test@example.com", "Secret123456!"}, true},
		{"Missing full name", SignupRequest{"", "test@example.com", "Secret123456!"}, true},
		{"Password too long (edge case)", SignupRequest{"Alice Doe", "test@example.com", strings.Repeat("a", 73)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignup(tt.req)
			if tt.wantErr {
				req.ErrorIs(err, errors.ErrInvalidSignup)
			} else {
				req.NoError(err)
			}
		})
	}
}

func TestLoginValidation(t *testing.T) {
	req := require.New(t)

	req.NoError(ValidateLogin(LoginRequest{Email: "test@example.com", Password: "Secret123456!"}))
	req.ErrorIs(ValidateLogin(LoginRequest{Email: "", Password: "Secret123456!"}), errors.ErrInvalidCredentials)
	req.ErrorIs(ValidateLogin(LoginRequest{Email: "test@example.com", Password: ""}), errors.ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	req := require.New(t)
	tokens := NewTokenManager("test-secret", time.Hour)

	token, err := tokens.Generate("uuid-123")
	req.NoError(err)

	claims, err := tokens.Validate(token)
	req.NoError(err)
	req.Equal("uuid-123", claims.UserID)
	req.Equal("pairchat", claims.Issuer)
}

func TestTokenRejections(t *testing.T) {
	req := require.New(t)
	tokens := NewTokenManager("test-secret", time.Hour)

	// Wrong secret
	otherManager := NewTokenManager("other-secret", time.Hour)
	token, err := otherManager.Generate("uuid-123")
	req.NoError(err)
	_, err = tokens.Validate(token)
	req.Error(err)

	// Expired token
	shortLived := NewTokenManager("test-secret", -time.Minute)
	token, err = shortLived.Generate("uuid-123")
	req.NoError(err)
	_, err = tokens.Validate(token)
	req.Error(err)

	// Garbage
	_, err = tokens.Validate("not.a.token")
	req.Error(err)
}

// BenchmarkHashPassword measures the CPU/RAM impact of a hash.
func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("A-very-long-and-complex-password-for-bench-123!")
	}
}
