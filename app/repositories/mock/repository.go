package mock

import (
	"context"
	"sync"
	"time"

	"toyblog/app/models"
	"toyblog/app/repositories"
)

// BlogRepository is an in-memory BlogRepository. Setting Err makes every
// call fail with it.
type BlogRepository struct {
	posts map[string]*models.BlogPost
	mutex sync.RWMutex
	Err   error
}

type CommentRepository struct {
	comments map[string]*models.BlogComment
	mutex    sync.RWMutex
	Err      error
}

type UserRepository struct {
	users map[string]*models.User
	mutex sync.RWMutex
	Err   error
}

type SessionStore struct {
	sessions map[string]*models.Session
	mutex    sync.RWMutex
	Err      error
}

func NewBlogRepository() *BlogRepository {
	return &BlogRepository{posts: make(map[string]*models.BlogPost)}
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{comments: make(map[string]*models.BlogComment)}
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*models.User)}
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*models.Session)}
}

// BlogRepository implementation

func (m *BlogRepository) FindAllSorted(ctx context.Context) ([]*models.BlogPost, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	posts := make([]*models.BlogPost, 0, len(m.posts))
	for _, p := range m.posts {
		cp := *p
		posts = append(posts, &cp)
	}
	models.SortPostsNewestFirst(posts)
	return posts, nil
}

func (m *BlogRepository) FindByID(ctx context.Context, id string) (*models.BlogPost, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *post
	return &cp, nil
}

func (m *BlogRepository) Create(ctx context.Context, post *models.BlogPost) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}
	post.ID = models.NewID()
	post.BeforeCreate(time.Now())
	cp := *post
	m.posts[post.ID] = &cp
	return nil
}

func (m *BlogRepository) UpdateByID(ctx context.Context, id string, changes *models.BlogPost) (*models.BlogPost, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	post.Title = changes.Title
	post.Snippet = changes.Snippet
	post.Body = changes.Body
	post.Author = changes.Author
	post.Image = changes.Image
	post.UpdatedAt = time.Now()
	cp := *post
	return &cp, nil
}

func (m *BlogRepository) DeleteByID(ctx context.Context, id string) (*models.BlogPost, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	delete(m.posts, id)
	return post, nil
}

func (m *BlogRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return false, m.Err
	}
	_, exists := m.posts[id]
	return exists, nil
}

func (m *BlogRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return false, m.Err
	}
	for _, p := range m.posts {
		if p.Title == title {
			return true, nil
		}
	}
	return false, nil
}

// CommentRepository implementation

func (m *CommentRepository) FindByPostID(ctx context.Context, postID string) ([]*models.BlogComment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	comments := []*models.BlogComment{}
	for _, c := range m.comments {
		if c.BlogPostID == postID {
			comments = append(comments, copyComment(c))
		}
	}
	models.SortCommentsNewestFirst(comments)
	return comments, nil
}

func (m *CommentRepository) Create(ctx context.Context, comment *models.BlogComment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}
	comment.ID = models.NewID()
	comment.BeforeCreate(time.Now())
	m.comments[comment.ID] = copyComment(comment)
	return nil
}

func (m *CommentRepository) AddReply(ctx context.Context, postID, commentID string, reply models.Reply) (*models.BlogComment, error) {
	return m.mutate(postID, commentID, func(c *models.BlogComment) {
		c.Replies = append(c.Replies, reply)
	})
}

func (m *CommentRepository) Update(ctx context.Context, postID, commentID, authorName, content string) (*models.BlogComment, error) {
	return m.mutate(postID, commentID, func(c *models.BlogComment) {
		c.AuthorName = authorName
		c.CommentContent = content
	})
}

func (m *CommentRepository) Delete(ctx context.Context, postID, commentID string) (*models.BlogComment, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	c, exists := m.comments[commentID]
	if !exists || c.BlogPostID != postID {
		return nil, repositories.ErrNotFound
	}
	delete(m.comments, commentID)
	return c, nil
}

func (m *CommentRepository) mutate(postID, commentID string, change func(c *models.BlogComment)) (*models.BlogComment, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	c, exists := m.comments[commentID]
	if !exists || c.BlogPostID != postID {
		return nil, repositories.ErrNotFound
	}
	change(c)
	return copyComment(c), nil
}

func copyComment(c *models.BlogComment) *models.BlogComment {
	cp := *c
	cp.Replies = append([]models.Reply{}, c.Replies...)
	return &cp
}

// UserRepository implementation

func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}
	user.Email = models.NormalizeEmail(user.Email)
	for _, u := range m.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	user.ID = models.NewID()
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	u, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	email = models.NormalizeEmail(email)
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *UserRepository) UpdateProfile(ctx context.Context, id string, profile models.Profile) (*models.User, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	u, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	u.ApplyProfile(profile, time.Now())
	cp := *u
	return &cp, nil
}

func (m *UserRepository) SetRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	u, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	u.Role = role
	cp := *u
	return &cp, nil
}

// SessionStore implementation. Expiry is checked on read.

func (m *SessionStore) Save(ctx context.Context, session *models.Session, ttl time.Duration) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}
	cp := *session
	m.sessions[session.ID] = &cp
	return nil
}

func (m *SessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	s, exists := m.sessions[id]
	if !exists || s.Expired(time.Now()) {
		return nil, repositories.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *SessionStore) Delete(ctx context.Context, id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.sessions, id)
	return nil
}

// Compile-time interface checks
var (
	_ repositories.BlogRepository    = (*BlogRepository)(nil)
	_ repositories.CommentRepository = (*CommentRepository)(nil)
	_ repositories.UserRepository    = (*UserRepository)(nil)
	_ repositories.SessionStore      = (*SessionStore)(nil)
)
