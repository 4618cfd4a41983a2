package models

import (
	"sort"
	"strings"
	"time"
)

// Validate checks the invariants every persisted post must hold.
func (p *BlogPost) Validate() error {
	return validate.Struct(p)
}

// Normalize trims every text field and fills in the default author and image.
func (p *BlogPost) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Snippet = strings.TrimSpace(p.Snippet)
	p.Body = strings.TrimSpace(p.Body)
	p.Author = strings.TrimSpace(p.Author)
	p.Image = strings.TrimSpace(p.Image)
	if p.Author == "" {
		p.Author = DefaultAuthor
	}
	if p.Image == "" {
		p.Image = DefaultImage
	}
}

// BeforeCreate stamps creation and update times. An existing CreatedAt is
// kept so imported posts retain their original date.
func (p *BlogPost) BeforeCreate(now time.Time) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

// SortPostsNewestFirst orders posts by CreatedAt descending, ties broken by ID.
func SortPostsNewestFirst(posts []*BlogPost) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
}
