package services

import (
	"context"
	"testing"

	"toyblog/app/models"
	"toyblog/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccountProfile(t *testing.T) {
	ctx := context.Background()
	users := mock.NewUserRepository()
	auth := NewAuthService(users, bcrypt.MinCost)
	svc := NewAccountService(users)
	user := register(t, auth, "parent@example.com", "secret1")

	got, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "parent@example.com", got.DisplayName())

	updated, err := svc.UpdateProfile(ctx, user.ID, ProfileInput{FirstName: " Pat ", LastName: "Lee", Phone: "+1 555-0100"})
	require.NoError(t, err)
	assert.Equal(t, "Pat", updated.FirstName)
	assert.Equal(t, "Pat Lee", updated.DisplayName())
	assert.Equal(t, "+1 555-0100", updated.Phone)

	_, err = svc.UpdateProfile(ctx, user.ID, ProfileInput{Phone: "call me maybe"})
	assert.Equal(t, "Phone must be a valid phone number", validationMessage(t, err))

	_, err = svc.GetProfile(ctx, models.NewID())
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = svc.UpdateProfile(ctx, models.NewID(), ProfileInput{FirstName: "Ghost"})
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestSetRoleByEmail(t *testing.T) {
	ctx := context.Background()
	users := mock.NewUserRepository()
	auth := NewAuthService(users, bcrypt.MinCost)
	svc := NewAccountService(users)
	register(t, auth, "admin@example.com", "secret1")

	user, err := svc.SetRoleByEmail(ctx, "ADMIN@example.com", models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())

	_, err = svc.SetRoleByEmail(ctx, "admin@example.com", models.Role("owner"))
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.SetRoleByEmail(ctx, "missing@example.com", models.RoleAdmin)
	assert.Equal(t, KindNotFound, KindOf(err))
}
