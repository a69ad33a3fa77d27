// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ForumQuestion is a question posted by a student. Its slug is derived
// from the title exactly once, at creation; later title edits never
// change it.
type ForumQuestion struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Slug       string     `json:"slug"`
	AuthorID   uuid.UUID  `json:"author_id"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	IsAnswered bool       `json:"is_answered"`
	Views      int        `json:"views"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Virtual fields populated by store joins.
	AuthorUsername  string `json:"-"`
	AuthorFirstName string `json:"-"`
	AuthorLastName  string `json:"-"`
	CategoryName    string `json:"-"`
	AnswerCount     int    `json:"-"`
}

// AuthorDisplayName returns the author's full name, falling back to the
// username when no name fields are set.
func (q ForumQuestion) AuthorDisplayName() string {
	u := User{Username: q.AuthorUsername, FirstName: q.AuthorFirstName, LastName: q.AuthorLastName}
	return u.DisplayName()
}

// ForumAnswer is a reply to a question. Answers are listed accepted
// first, then oldest first.
type ForumAnswer struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	Content    string    `json:"content"`
	AuthorID   uuid.UUID `json:"author_id"`
	IsAccepted bool      `json:"is_accepted"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	AuthorUsername  string `json:"-"`
	AuthorFirstName string `json:"-"`
	AuthorLastName  string `json:"-"`
}

// AuthorDisplayName returns the answer author's full name, falling back
// to the username.
func (a ForumAnswer) AuthorDisplayName() string {
	u := User{Username: a.AuthorUsername, FirstName: a.AuthorFirstName, LastName: a.AuthorLastName}
	return u.DisplayName()
}
