package services

import (
	"context"
	"errors"
	"testing"

	"toyblog/app/models"
	"toyblog/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupAuthService(t *testing.T) (*AuthService, *mock.UserRepository) {
	t.Helper()
	repo := mock.NewUserRepository()
	return NewAuthService(repo, bcrypt.MinCost), repo
}

func register(t *testing.T, svc *AuthService, email, password string) *models.User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterInput{Email: email, Password: password, Password2: password})
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupAuthService(t)

	user := register(t, svc, "  Kid@Example.COM ", "secret1")
	assert.True(t, models.IsValidID(user.ID))
	assert.Equal(t, "kid@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))

	_, err := svc.Register(ctx, RegisterInput{Email: "kid@example.com", Password: "other12", Password2: "other12"})
	assert.Equal(t, "Email is already in use", validationMessage(t, err))

	tests := []struct {
		name    string
		input   RegisterInput
		message string
	}{
		{
			name:    "invalid email",
			input:   RegisterInput{Email: "not-an-email", Password: "secret1", Password2: "secret1"},
			message: "Email must be a valid email",
		},
		{
			name:    "short password",
			input:   RegisterInput{Email: "a@b.co", Password: "abc", Password2: "abc"},
			message: "Password must be at least 6 characters long",
		},
		{
			name:    "passwords differ",
			input:   RegisterInput{Email: "a@b.co", Password: "secret1", Password2: "secret2"},
			message: "Passwords do not match",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.input)
			assert.Equal(t, tt.message, validationMessage(t, err))
		})
	}
}

func TestNewAuthServiceClampsCost(t *testing.T) {
	svc := NewAuthService(mock.NewUserRepository(), 99)
	assert.Equal(t, bcrypt.DefaultCost, svc.bcryptCost)

	svc = NewAuthService(mock.NewUserRepository(), 0)
	assert.Equal(t, bcrypt.DefaultCost, svc.bcryptCost)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, repo := setupAuthService(t)
	registered := register(t, svc, "kid@example.com", "secret1")

	user, err := svc.Login(ctx, LoginInput{Email: " KID@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = svc.Login(ctx, LoginInput{Email: "kid@example.com", Password: "wrong!!"})
	assert.Equal(t, "Invalid credentials", validationMessage(t, err))

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret1"})
	assert.Equal(t, "Invalid credentials", validationMessage(t, err))

	_, err = svc.Login(ctx, LoginInput{Email: "  "})
	assert.Equal(t, "Email and password are required", validationMessage(t, err))

	repo.Err = errors.New("down")
	_, err = svc.Login(ctx, LoginInput{Email: "kid@example.com", Password: "secret1"})
	assert.Equal(t, KindUnexpected, KindOf(err))
}
