package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"toyblog/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerUserRepository implements UserRepository using BadgerDB. A secondary
// user_email:<email> key maps each address to its user ID and enforces uniqueness.
type BadgerUserRepository struct {
	db  *badger.DB
	now func() time.Time
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db, now: time.Now}
}

// Create creates a new user
func (r *BadgerUserRepository) Create(ctx context.Context, user *models.User) error {
	now := r.now()
	user.ID = models.NewID()
	user.Email = models.NormalizeEmail(user.Email)
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	if err := user.Validate(); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}

	return update(ctx, r.db, func(txn *badger.Txn) error {
		_, err := txn.Get(userEmailKey(user.Email))
		if err == nil {
			return ErrDuplicate
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(userEmailKey(user.Email), []byte(user.ID)); err != nil {
			return err
		}
		return setEntity(txn, userKey(user.ID), user)
	})
}

// FindByID retrieves a user by ID
func (r *BadgerUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		return getEntity(txn, userKey(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail retrieves a user through the email index
func (r *BadgerUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		item, err := txn.Get(userEmailKey(models.NormalizeEmail(email)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return getEntity(txn, userKey(string(id)), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile replaces the user's editable profile fields
func (r *BadgerUserRepository) UpdateProfile(ctx context.Context, id string, profile models.Profile) (*models.User, error) {
	return r.mutate(ctx, id, func(u *models.User) {
		u.ApplyProfile(profile, r.now())
	})
}

// SetRole changes the user's role
func (r *BadgerUserRepository) SetRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	return r.mutate(ctx, id, func(u *models.User) {
		u.Role = role
		u.UpdatedAt = r.now()
	})
}

func (r *BadgerUserRepository) mutate(ctx context.Context, id string, change func(u *models.User)) (*models.User, error) {
	var updated models.User
	err := update(ctx, r.db, func(txn *badger.Txn) error {
		var user models.User
		if err := getEntity(txn, userKey(id), &user); err != nil {
			return err
		}
		change(&user)
		if err := user.Validate(); err != nil {
			return fmt.Errorf("invalid user: %w", err)
		}
		updated = user
		return setEntity(txn, userKey(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
