package models

import (
	"sort"
	"time"
)

// Validate checks if the comment meets all validation requirements
func (c *BlogComment) Validate() error {
	return validate.Struct(c)
}

// Validate checks if the reply meets all validation requirements
func (r *Reply) Validate() error {
	return validate.Struct(r)
}

// BeforeCreate sets up any necessary fields before creation
func (c *BlogComment) BeforeCreate(now time.Time) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.Replies == nil {
		c.Replies = []Reply{}
	}
}

// SortCommentsNewestFirst orders comments by CreatedAt descending, ties broken by ID.
func SortCommentsNewestFirst(comments []*BlogComment) {
	sort.SliceStable(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.After(comments[j].CreatedAt)
		}
		return comments[i].ID > comments[j].ID
	})
}
