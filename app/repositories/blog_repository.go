package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"toyblog/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerBlogRepository implements BlogRepository using BadgerDB
type BadgerBlogRepository struct {
	db  *badger.DB
	now func() time.Time
}

// NewBadgerBlogRepository creates a new BadgerBlogRepository
func NewBadgerBlogRepository(db *badger.DB) *BadgerBlogRepository {
	return &BadgerBlogRepository{db: db, now: time.Now}
}

// FindAllSorted retrieves all posts, newest first
func (r *BadgerBlogRepository) FindAllSorted(ctx context.Context) ([]*models.BlogPost, error) {
	posts := []*models.BlogPost{}
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(BlogKeyPrefix), func(val []byte) error {
			var post models.BlogPost
			if err := unmarshalEntity(val, &post); err != nil {
				return err
			}
			posts = append(posts, &post)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	models.SortPostsNewestFirst(posts)
	return posts, nil
}

// FindByID retrieves a post by ID
func (r *BadgerBlogRepository) FindByID(ctx context.Context, id string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		return getEntity(txn, blogKey(id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Create creates a new post
func (r *BadgerBlogRepository) Create(ctx context.Context, post *models.BlogPost) error {
	post.ID = models.NewID()
	post.BeforeCreate(r.now())
	if err := post.Validate(); err != nil {
		return fmt.Errorf("invalid blog post: %w", err)
	}
	return update(ctx, r.db, func(txn *badger.Txn) error {
		return setEntity(txn, blogKey(post.ID), post)
	})
}

// UpdateByID overwrites the editable fields of an existing post
func (r *BadgerBlogRepository) UpdateByID(ctx context.Context, id string, changes *models.BlogPost) (*models.BlogPost, error) {
	var updated models.BlogPost
	err := update(ctx, r.db, func(txn *badger.Txn) error {
		var existing models.BlogPost
		if err := getEntity(txn, blogKey(id), &existing); err != nil {
			return err
		}
		existing.Title = changes.Title
		existing.Snippet = changes.Snippet
		existing.Body = changes.Body
		existing.Author = changes.Author
		existing.Image = changes.Image
		existing.UpdatedAt = r.now()
		if err := existing.Validate(); err != nil {
			return fmt.Errorf("invalid blog post: %w", err)
		}
		updated = existing
		return setEntity(txn, blogKey(id), &existing)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteByID deletes a post and returns the removed record
func (r *BadgerBlogRepository) DeleteByID(ctx context.Context, id string) (*models.BlogPost, error) {
	var deleted models.BlogPost
	err := update(ctx, r.db, func(txn *badger.Txn) error {
		if err := getEntity(txn, blogKey(id), &deleted); err != nil {
			return err
		}
		return txn.Delete(blogKey(id))
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

// ExistsByID reports whether a post with the given ID is stored
func (r *BadgerBlogRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		_, err := txn.Get(blogKey(id))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ExistsByTitle reports whether any post carries exactly this title
func (r *BadgerBlogRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	errFound := errors.New("found")
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(BlogKeyPrefix), func(val []byte) error {
			var post models.BlogPost
			if err := unmarshalEntity(val, &post); err != nil {
				return err
			}
			if post.Title == title {
				return errFound
			}
			return nil
		})
	})
	if errors.Is(err, errFound) {
		return true, nil
	}
	return false, err
}
