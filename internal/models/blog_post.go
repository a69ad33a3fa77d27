// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// BlogPost is an article in the blog feed. Only published posts are
// visible to anonymous visitors.
type BlogPost struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Slug          string     `json:"slug"`
	AuthorID      uuid.UUID  `json:"author_id"`
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	FeaturedImage string     `json:"featured_image"`
	IsPublished   bool       `json:"is_published"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Virtual fields populated by store joins.
	AuthorUsername  string `json:"-"`
	AuthorFirstName string `json:"-"`
	AuthorLastName  string `json:"-"`
	CategoryName    string `json:"-"`
}

// AuthorDisplayName returns the author's full name, falling back to the
// username when no name fields are set.
func (p BlogPost) AuthorDisplayName() string {
	u := User{Username: p.AuthorUsername, FirstName: p.AuthorFirstName, LastName: p.AuthorLastName}
	return u.DisplayName()
}
