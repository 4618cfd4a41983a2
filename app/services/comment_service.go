package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"toyblog/app/models"
	"toyblog/app/repositories"
)

// CommentInput is a new top-level comment on a post.
type CommentInput struct {
	PostID         string `json:"-"`
	AuthorName     string `json:"authorName" validate:"required,min=2"`
	CommentContent string `json:"commentContent" validate:"required,min=5"`
}

// ReplyInput is a reply to an existing comment.
type ReplyInput struct {
	PostID       string `json:"-"`
	CommentID    string `json:"-"`
	AuthorName   string `json:"authorName" validate:"required,min=2"`
	ReplyContent string `json:"replyContent" validate:"required,min=2"`
}

// CommentUpdateInput replaces a comment's author name and text.
type CommentUpdateInput struct {
	PostID         string `json:"-"`
	CommentID      string `json:"-"`
	AuthorName     string `json:"authorName" validate:"required,min=2"`
	CommentContent string `json:"commentContent" validate:"required,min=5"`
}

var (
	commentRules = ruleSet{
		required: "Author name and comment text are required",
		labels: map[string]string{
			"authorName":     "Author name",
			"commentContent": "Comment",
		},
	}
	replyRules = ruleSet{
		required: "Name and reply text are required",
		labels: map[string]string{
			"authorName":   "Name",
			"replyContent": "Reply",
		},
	}
)

const (
	commentResource = "Comment"

	msgInvalidBlogID = "Invalid blog ID"
	msgInvalidIDs    = "Invalid IDs"
)

// CommentService handles business logic for comments and replies
type CommentService struct {
	comments repositories.CommentRepository
	now      func() time.Time
}

// NewCommentService creates a new CommentService
func NewCommentService(comments repositories.CommentRepository) *CommentService {
	return &CommentService{comments: comments, now: time.Now}
}

// ListByBlogPostID returns the post's comments, newest first
func (s *CommentService) ListByBlogPostID(ctx context.Context, postID string) ([]*models.BlogComment, error) {
	if !models.IsValidID(postID) {
		return nil, NewValidationError(msgInvalidBlogID, map[string]string{"postId": msgInvalidBlogID}, nil)
	}
	comments, err := s.comments.FindByPostID(ctx, postID)
	if err != nil {
		return nil, NewUnexpectedError("failed to list comments", err)
	}
	return comments, nil
}

// CreateComment validates and stores a new comment with an empty reply list
func (s *CommentService) CreateComment(ctx context.Context, in CommentInput) (*models.BlogComment, error) {
	if !models.IsValidID(in.PostID) {
		return nil, NewValidationError(msgInvalidBlogID, map[string]string{"postId": msgInvalidBlogID}, nil)
	}
	values := map[string]string{"authorName": in.AuthorName, "commentContent": in.CommentContent}
	clean := CommentInput{
		PostID:         in.PostID,
		AuthorName:     strings.TrimSpace(in.AuthorName),
		CommentContent: strings.TrimSpace(in.CommentContent),
	}
	if err := commentRules.check(clean, values); err != nil {
		return nil, err
	}

	comment := &models.BlogComment{
		BlogPostID:     clean.PostID,
		AuthorName:     clean.AuthorName,
		CommentContent: clean.CommentContent,
		Replies:        []models.Reply{},
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, NewUnexpectedError("failed to create comment", err)
	}
	return comment, nil
}

// AddReply appends a reply to the comment matching both IDs
func (s *CommentService) AddReply(ctx context.Context, in ReplyInput) (*models.BlogComment, error) {
	if err := checkIDs(in.PostID, in.CommentID); err != nil {
		return nil, err
	}
	values := map[string]string{"authorName": in.AuthorName, "replyContent": in.ReplyContent}
	clean := ReplyInput{
		PostID:       in.PostID,
		CommentID:    in.CommentID,
		AuthorName:   strings.TrimSpace(in.AuthorName),
		ReplyContent: strings.TrimSpace(in.ReplyContent),
	}
	if err := replyRules.check(clean, values); err != nil {
		return nil, err
	}

	reply := models.Reply{
		ReplyID:      models.NewID(),
		AuthorName:   clean.AuthorName,
		ReplyContent: clean.ReplyContent,
		CreatedAt:    s.now(),
	}
	comment, err := s.comments.AddReply(ctx, clean.PostID, clean.CommentID, reply)
	if err != nil {
		return nil, s.storeError("failed to add reply", err)
	}
	return comment, nil
}

// UpdateComment re-validates and replaces the comment's author name and text
func (s *CommentService) UpdateComment(ctx context.Context, in CommentUpdateInput) (*models.BlogComment, error) {
	if err := checkIDs(in.PostID, in.CommentID); err != nil {
		return nil, err
	}
	values := map[string]string{"authorName": in.AuthorName, "commentContent": in.CommentContent}
	clean := CommentUpdateInput{
		PostID:         in.PostID,
		CommentID:      in.CommentID,
		AuthorName:     strings.TrimSpace(in.AuthorName),
		CommentContent: strings.TrimSpace(in.CommentContent),
	}
	if err := commentRules.check(clean, values); err != nil {
		return nil, err
	}

	comment, err := s.comments.Update(ctx, clean.PostID, clean.CommentID, clean.AuthorName, clean.CommentContent)
	if err != nil {
		return nil, s.storeError("failed to update comment", err)
	}
	return comment, nil
}

// DeleteComment removes the comment matching both IDs and returns it
func (s *CommentService) DeleteComment(ctx context.Context, postID, commentID string) (*models.BlogComment, error) {
	if err := checkIDs(postID, commentID); err != nil {
		return nil, err
	}
	comment, err := s.comments.Delete(ctx, postID, commentID)
	if err != nil {
		return nil, s.storeError("failed to delete comment", err)
	}
	return comment, nil
}

func checkIDs(postID, commentID string) error {
	fields := map[string]string{}
	if !models.IsValidID(postID) {
		fields["postId"] = msgInvalidBlogID
	}
	if !models.IsValidID(commentID) {
		fields["commentId"] = "Invalid comment ID"
	}
	if len(fields) > 0 {
		return NewValidationError(msgInvalidIDs, fields, nil)
	}
	return nil
}

func (s *CommentService) storeError(msg string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return NewNotFoundError(commentResource)
	}
	return NewUnexpectedError(msg, err)
}
