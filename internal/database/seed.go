// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"onlystudies/internal/slug"
)

// seedCategory describes one category and its subcategories for seeding.
type seedCategory struct {
	name        string
	description string
	subs        []seedSub
}

type seedSub struct {
	name        string
	description string
}

var seedCategories = []seedCategory{
	{
		name:        "MBA",
		description: "Master of Business Administration courses and resources",
		subs: []seedSub{
			{"Finance", "Financial management, accounting, and investment courses"},
			{"Marketing", "Digital marketing, brand management, and market strategy"},
			{"Operations", "Supply chain, operations management, and logistics"},
		},
	},
	{
		name:        "Engineering",
		description: "Engineering courses covering various disciplines",
		subs: []seedSub{
			{"Computer Science", "Programming, algorithms, and software development"},
			{"Mechanical", "Mechanical design, thermodynamics, and manufacturing"},
			{"Civil", "Structural design, construction, and infrastructure"},
		},
	},
	{
		name:        "Medical",
		description: "Medical education and healthcare studies",
		subs: []seedSub{
			{"MBBS", "Bachelor of Medicine, Bachelor of Surgery"},
			{"NEET", "National Eligibility cum Entrance Test preparation"},
			{"Nursing", "Nursing education and healthcare certification"},
		},
	},
}

// Seed populates the database with initial development data: the default
// category tree, a demo author, and a handful of blog posts and
// notifications. It is a no-op when users already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("studydemo1"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	var authorID string
	err = db.QueryRow(`
		INSERT INTO users (username, email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, "studyteam", "team@onlystudies.local", string(hash), "Study", "Team").Scan(&authorID)
	if err != nil {
		return fmt.Errorf("seed insert author: %w", err)
	}

	categoryIDs := map[string]string{}
	for _, c := range seedCategories {
		var id string
		err := db.QueryRow(`
			INSERT INTO categories (name, slug, description)
			VALUES ($1, $2, $3)
			RETURNING id
		`, c.name, slug.Generate(c.name), c.description).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.name, err)
		}
		categoryIDs[c.name] = id

		for _, sub := range c.subs {
			_, err := db.Exec(`
				INSERT INTO subcategories (category_id, name, slug, description)
				VALUES ($1, $2, $3, $4)
			`, id, sub.name, slug.Generate(sub.name), sub.description)
			if err != nil {
				return fmt.Errorf("seed subcategory %s: %w", sub.name, err)
			}
		}
	}

	posts := []struct {
		title    string
		content  string
		category string
		publish  bool
	}{
		{
			title:    "Tips for Passing Your MBA Exams",
			content:  "Structured revision beats cramming. Build a weekly plan that covers accounting, marketing, and operations in rotation, and close every week with a timed mock paper.",
			category: "MBA",
			publish:  true,
		},
		{
			title:    "A Study Roadmap for NEET Aspirants",
			content:  "Biology carries half the marks, so weight your schedule accordingly. Revise NCERT chapters twice before touching reference books, and track every incorrect answer in an error log.",
			category: "Medical",
			publish:  true,
		},
		{
			title:    "How to Prepare for Engineering Placements",
			content:  "Data structures and algorithms open the door; projects keep you in the room. Target one mock interview a week and review the recordings with a peer.",
			category: "Engineering",
			publish:  true,
		},
		{
			title:    "Draft: Scholarship Deadlines This Winter",
			content:  "This roundup is still being verified against the official portals and is not ready for the feed yet.",
			category: "",
			publish:  false,
		},
	}

	for _, p := range posts {
		var categoryID any
		if p.category != "" {
			categoryID = categoryIDs[p.category]
		}
		_, err := db.Exec(`
			INSERT INTO blog_posts (title, content, slug, author_id, category_id, is_published)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, p.title, p.content, slug.Generate(p.title), authorID, categoryID, p.publish)
		if err != nil {
			return fmt.Errorf("seed blog post %q: %w", p.title, err)
		}
	}

	_, err = db.Exec(`
		INSERT INTO notifications (user_id, title, message, notification_type)
		VALUES ($1, 'Welcome to OnlyStudies', 'Browse the blog and ask your first question in the forum.', 'system')
	`, authorID)
	if err != nil {
		return fmt.Errorf("seed notification: %w", err)
	}

	slog.Info("database seeded",
		"categories", len(seedCategories),
		"blog_posts", len(posts),
	)
	return nil
}
