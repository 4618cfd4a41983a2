package services

import (
	"context"
	"errors"
	"strings"

	"toyblog/app/models"
	"toyblog/app/repositories"

	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is a sign-up form submission.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
}

// LoginInput is a sign-in form submission.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

var (
	registerRules = ruleSet{
		labels: map[string]string{
			"email":     "Email",
			"password":  "Password",
			"password2": "Password confirmation",
		},
		overrides: map[string]string{
			"password2.eqfield": "Passwords do not match",
		},
	}
	loginRules = ruleSet{
		required: "Email and password are required",
	}
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgEmailInUse         = "Email is already in use"
)

// AuthService registers users and checks their credentials
type AuthService struct {
	users      repositories.UserRepository
	bcryptCost int
}

// NewAuthService creates a new AuthService. Costs outside bcrypt's range fall
// back to bcrypt.DefaultCost.
func NewAuthService(users repositories.UserRepository, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, bcryptCost: bcryptCost}
}

// Register creates a user with the "user" role
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = models.NormalizeEmail(in.Email)
	values := map[string]string{"email": in.Email}
	if err := registerRules.check(in, values); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, NewUnexpectedError("failed to hash password", err)
	}
	user := &models.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, NewValidationError(msgEmailInUse, map[string]string{"email": msgEmailInUse}, values)
		}
		return nil, NewUnexpectedError("failed to create user", err)
	}
	return user, nil
}

// Login returns the user whose email and password match. Unknown emails and
// wrong passwords fail with the same message.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	values := map[string]string{"email": strings.TrimSpace(in.Email)}
	if err := loginRules.check(LoginInput{Email: strings.TrimSpace(in.Email), Password: in.Password}, values); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NewValidationError(msgInvalidCredentials, nil, values)
	}
	if err != nil {
		return nil, NewUnexpectedError("failed to load user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, NewValidationError(msgInvalidCredentials, nil, values)
	}
	return user, nil
}
