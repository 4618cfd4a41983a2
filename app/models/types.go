package models

import "time"

const (
	DefaultAuthor = "Anonymous"
	DefaultImage  = "/images/default-blog.png"
)

// BlogPost is a published article.
type BlogPost struct {
	ID        string    `json:"id"`
	Title     string    `json:"title" validate:"required,min=5"`
	Snippet   string    `json:"snippet" validate:"required"`
	Body      string    `json:"body" validate:"required"`
	Author    string    `json:"author"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BlogComment is a top-level comment on a post. Replies are owned by the
// comment and only ever appended.
type BlogComment struct {
	ID             string    `json:"id"`
	BlogPostID     string    `json:"blogPostId" validate:"required,objectid"`
	AuthorName     string    `json:"authorName" validate:"required,min=2"`
	CommentContent string    `json:"commentContent" validate:"required,min=5"`
	CreatedAt      time.Time `json:"createdAt"`
	Replies        []Reply   `json:"replies" validate:"dive"`
}

// Reply is an entry in a comment's reply list.
type Reply struct {
	ReplyID      string    `json:"replyId" validate:"required,objectid"`
	AuthorName   string    `json:"authorName" validate:"required,min=2"`
	ReplyContent string    `json:"replyContent" validate:"required,min=2"`
	CreatedAt    time.Time `json:"createdAt" validate:"required"`
}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email" validate:"required,email,max=254"`
	PasswordHash string    `json:"passwordHash" validate:"required"`
	FirstName    string    `json:"firstName,omitempty" validate:"max=100"`
	LastName     string    `json:"lastName,omitempty" validate:"max=100"`
	Phone        string    `json:"phone,omitempty" validate:"omitempty,max=32,phone"`
	Role         Role      `json:"role" validate:"oneof=user admin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile holds the user fields an account owner may change.
type Profile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Session is the server-side record behind a session cookie.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Flash     *Flash    `json:"flash,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}
