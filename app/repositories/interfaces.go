package repositories

import (
	"context"
	"errors"
	"time"

	"toyblog/app/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// BlogRepository defines the interface for blog post data access
type BlogRepository interface {
	// FindAllSorted returns every post, newest first.
	FindAllSorted(ctx context.Context) ([]*models.BlogPost, error)
	FindByID(ctx context.Context, id string) (*models.BlogPost, error)
	// Create assigns the post its ID and timestamps.
	Create(ctx context.Context, post *models.BlogPost) error
	// UpdateByID replaces the editable fields and returns the stored post.
	UpdateByID(ctx context.Context, id string, post *models.BlogPost) (*models.BlogPost, error)
	// DeleteByID removes the post and returns what was deleted.
	DeleteByID(ctx context.Context, id string) (*models.BlogPost, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByTitle(ctx context.Context, title string) (bool, error)
}

// CommentRepository defines the interface for comment data access. Every
// mutation is scoped by both the post and the comment ID.
type CommentRepository interface {
	// FindByPostID returns the post's comments, newest first.
	FindByPostID(ctx context.Context, postID string) ([]*models.BlogComment, error)
	Create(ctx context.Context, comment *models.BlogComment) error
	AddReply(ctx context.Context, postID, commentID string, reply models.Reply) (*models.BlogComment, error)
	Update(ctx context.Context, postID, commentID, authorName, content string) (*models.BlogComment, error)
	Delete(ctx context.Context, postID, commentID string) (*models.BlogComment, error)
}

// UserRepository defines the interface for account data access
type UserRepository interface {
	// Create stores a new user and fails with ErrDuplicate when the email is taken.
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, profile models.Profile) (*models.User, error)
	SetRole(ctx context.Context, id string, role models.Role) (*models.User, error)
}

// SessionStore keeps session records until they expire.
type SessionStore interface {
	Save(ctx context.Context, session *models.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}
