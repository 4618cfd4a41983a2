package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"toyblog/app/models"
	"toyblog/app/repositories"
)

// BlogInput is the editable part of a blog post as submitted by a client.
type BlogInput struct {
	Title   string `json:"title" validate:"required,min=5"`
	Snippet string `json:"snippet" validate:"required"`
	Body    string `json:"body" validate:"required"`
	Author  string `json:"author"`
	Image   string `json:"image"`
}

func (in BlogInput) trimmed() BlogInput {
	return BlogInput{
		Title:   strings.TrimSpace(in.Title),
		Snippet: strings.TrimSpace(in.Snippet),
		Body:    strings.TrimSpace(in.Body),
		Author:  strings.TrimSpace(in.Author),
		Image:   strings.TrimSpace(in.Image),
	}
}

// Values returns the input as submitted, untrimmed.
func (in BlogInput) Values() map[string]string {
	return map[string]string{
		"title":   in.Title,
		"snippet": in.Snippet,
		"body":    in.Body,
		"author":  in.Author,
		"image":   in.Image,
	}
}

var blogRules = ruleSet{
	required: "Title, snippet and body are required",
	labels: map[string]string{
		"title":   "Title",
		"snippet": "Snippet",
		"body":    "Body",
		"author":  "Author",
		"image":   "Image",
	},
}

const blogResource = "Blog post"

// BlogService handles business logic for blog posts
type BlogService struct {
	blogs repositories.BlogRepository
}

// NewBlogService creates a new BlogService
func NewBlogService(blogs repositories.BlogRepository) *BlogService {
	return &BlogService{blogs: blogs}
}

// ListBlogs returns every post, newest first
func (s *BlogService) ListBlogs(ctx context.Context) ([]*models.BlogPost, error) {
	posts, err := s.blogs.FindAllSorted(ctx)
	if err != nil {
		return nil, NewUnexpectedError("failed to list blog posts", err)
	}
	return posts, nil
}

// GetBlogByID returns a post. Malformed IDs are reported as not found.
func (s *BlogService) GetBlogByID(ctx context.Context, id string) (*models.BlogPost, error) {
	if !models.IsValidID(id) {
		return nil, NewNotFoundError(blogResource)
	}
	post, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError("failed to load blog post", err)
	}
	return post, nil
}

// CreateBlog validates and stores a new post
func (s *BlogService) CreateBlog(ctx context.Context, in BlogInput) (*models.BlogPost, error) {
	post, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	if err := s.blogs.Create(ctx, post); err != nil {
		return nil, NewUnexpectedError("failed to create blog post", err)
	}
	return post, nil
}

// UpdateBlog validates the input and replaces the post's editable fields
func (s *BlogService) UpdateBlog(ctx context.Context, id string, in BlogInput) (*models.BlogPost, error) {
	changes, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	if !models.IsValidID(id) {
		return nil, NewNotFoundError(blogResource)
	}
	post, err := s.blogs.UpdateByID(ctx, id, changes)
	if err != nil {
		return nil, s.storeError("failed to update blog post", err)
	}
	return post, nil
}

// DeleteBlog removes a post and returns it. Comments are left in place.
func (s *BlogService) DeleteBlog(ctx context.Context, id string) (*models.BlogPost, error) {
	if !models.IsValidID(id) {
		return nil, NewNotFoundError(blogResource)
	}
	post, err := s.blogs.DeleteByID(ctx, id)
	if err != nil {
		return nil, s.storeError("failed to delete blog post", err)
	}
	return post, nil
}

// Exists reports whether a post with the given ID exists
func (s *BlogService) Exists(ctx context.Context, id string) (bool, error) {
	if !models.IsValidID(id) {
		return false, nil
	}
	ok, err := s.blogs.ExistsByID(ctx, id)
	if err != nil {
		return false, NewUnexpectedError("failed to check blog post", err)
	}
	return ok, nil
}

// ImportBlog stores a post carried over from the legacy JSON file, keeping
// its original creation time. Posts whose title already exists are skipped
// and reported with created=false.
func (s *BlogService) ImportBlog(ctx context.Context, in BlogInput, createdAt time.Time) (post *models.BlogPost, created bool, err error) {
	post, err = s.prepare(in)
	if err != nil {
		return nil, false, err
	}
	exists, err := s.blogs.ExistsByTitle(ctx, post.Title)
	if err != nil {
		return nil, false, NewUnexpectedError("failed to check blog post", err)
	}
	if exists {
		return nil, false, nil
	}
	post.CreatedAt = createdAt
	if err := s.blogs.Create(ctx, post); err != nil {
		return nil, false, NewUnexpectedError("failed to import blog post", err)
	}
	return post, true, nil
}

// prepare validates the trimmed input and builds a normalized post from it.
func (s *BlogService) prepare(in BlogInput) (*models.BlogPost, error) {
	clean := in.trimmed()
	if err := blogRules.check(clean, in.Values()); err != nil {
		return nil, err
	}
	post := &models.BlogPost{
		Title:   clean.Title,
		Snippet: clean.Snippet,
		Body:    clean.Body,
		Author:  clean.Author,
		Image:   clean.Image,
	}
	post.Normalize()
	return post, nil
}

func (s *BlogService) storeError(msg string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return NewNotFoundError(blogResource)
	}
	return NewUnexpectedError(msg, err)
}
