package repositories

import (
	"context"
	"fmt"
	"time"

	"toyblog/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB.
// Comments live under comment:<postID>:<commentID>, so a lookup that names
// the wrong post misses.
type BadgerCommentRepository struct {
	db    *badger.DB
	now   func() time.Time
	locks keyLocks
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db, now: time.Now}
}

// FindByPostID retrieves all comments for a post, newest first
func (r *BadgerCommentRepository) FindByPostID(ctx context.Context, postID string) ([]*models.BlogComment, error) {
	comments := []*models.BlogComment{}
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		return scanPrefix(txn, commentPrefix(postID), func(val []byte) error {
			var comment models.BlogComment
			if err := unmarshalEntity(val, &comment); err != nil {
				return fmt.Errorf("failed to unmarshal comment: %w", err)
			}
			comments = append(comments, &comment)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	models.SortCommentsNewestFirst(comments)
	return comments, nil
}

// Create creates a new comment
func (r *BadgerCommentRepository) Create(ctx context.Context, comment *models.BlogComment) error {
	comment.ID = models.NewID()
	comment.BeforeCreate(r.now())
	if err := comment.Validate(); err != nil {
		return fmt.Errorf("invalid comment: %w", err)
	}
	return update(ctx, r.db, func(txn *badger.Txn) error {
		return setEntity(txn, commentKey(comment.BlogPostID, comment.ID), comment)
	})
}

// AddReply appends a reply to the comment in a single transaction
func (r *BadgerCommentRepository) AddReply(ctx context.Context, postID, commentID string, reply models.Reply) (*models.BlogComment, error) {
	return r.mutate(ctx, postID, commentID, func(c *models.BlogComment) {
		c.Replies = append(c.Replies, reply)
	})
}

// Update changes the author name and content of a comment
func (r *BadgerCommentRepository) Update(ctx context.Context, postID, commentID, authorName, content string) (*models.BlogComment, error) {
	return r.mutate(ctx, postID, commentID, func(c *models.BlogComment) {
		c.AuthorName = authorName
		c.CommentContent = content
	})
}

// Delete deletes a comment and returns the removed record
func (r *BadgerCommentRepository) Delete(ctx context.Context, postID, commentID string) (*models.BlogComment, error) {
	var deleted models.BlogComment
	key := commentKey(postID, commentID)
	defer r.locks.lock(key)()
	err := update(ctx, r.db, func(txn *badger.Txn) error {
		if err := getEntity(txn, key, &deleted); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

// mutate applies change to the stored comment as one read-modify-write transaction.
func (r *BadgerCommentRepository) mutate(ctx context.Context, postID, commentID string, change func(c *models.BlogComment)) (*models.BlogComment, error) {
	var updated models.BlogComment
	key := commentKey(postID, commentID)
	defer r.locks.lock(key)()
	err := update(ctx, r.db, func(txn *badger.Txn) error {
		var comment models.BlogComment
		if err := getEntity(txn, key, &comment); err != nil {
			return err
		}
		change(&comment)
		if err := comment.Validate(); err != nil {
			return fmt.Errorf("invalid comment: %w", err)
		}
		updated = comment
		return setEntity(txn, key, &comment)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
