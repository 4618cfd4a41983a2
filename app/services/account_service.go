package services

import (
	"context"
	"errors"
	"strings"

	"toyblog/app/models"
	"toyblog/app/repositories"
)

// ProfileInput holds the account fields a user may edit.
type ProfileInput struct {
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Phone     string `json:"phone" validate:"omitempty,max=32,phone"`
}

var profileRules = ruleSet{
	labels: map[string]string{
		"firstName": "First name",
		"lastName":  "Last name",
		"phone":     "Phone",
	},
}

const accountResource = "Account"

// AccountService reads and edits account profiles
type AccountService struct {
	users repositories.UserRepository
}

func NewAccountService(users repositories.UserRepository) *AccountService {
	return &AccountService{users: users}
}

// GetProfile returns the user behind userID
func (s *AccountService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, s.storeError("failed to load account", err)
	}
	return user, nil
}

// UpdateProfile validates and stores the editable profile fields
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*models.User, error) {
	values := map[string]string{"firstName": in.FirstName, "lastName": in.LastName, "phone": in.Phone}
	clean := ProfileInput{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Phone:     strings.TrimSpace(in.Phone),
	}
	if err := profileRules.check(clean, values); err != nil {
		return nil, err
	}

	user, err := s.users.UpdateProfile(ctx, userID, models.Profile{
		FirstName: clean.FirstName,
		LastName:  clean.LastName,
		Phone:     clean.Phone,
	})
	if err != nil {
		return nil, s.storeError("failed to update account", err)
	}
	return user, nil
}

// SetRoleByEmail changes the role of the account registered under email
func (s *AccountService) SetRoleByEmail(ctx context.Context, email string, role models.Role) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, NewValidationError("Role must be user or admin", map[string]string{"role": string(role)}, nil)
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, s.storeError("failed to load account", err)
	}
	user, err = s.users.SetRole(ctx, user.ID, role)
	if err != nil {
		return nil, s.storeError("failed to update role", err)
	}
	return user, nil
}

func (s *AccountService) storeError(msg string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return NewNotFoundError(accountResource)
	}
	return NewUnexpectedError(msg, err)
}
