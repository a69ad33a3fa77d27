// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"onlystudies/internal/models"
)

// BlogStore handles all blog-post database operations. Public-facing
// queries only ever surface published posts.
type BlogStore struct {
	db *sql.DB
}

// NewBlogStore creates a new BlogStore with the given database connection.
func NewBlogStore(db *sql.DB) *BlogStore {
	return &BlogStore{db: db}
}

const blogSelect = `
	SELECT p.id, p.title, p.content, p.slug, p.author_id, p.category_id,
	       p.featured_image, p.is_published, p.created_at, p.updated_at,
	       u.username, u.first_name, u.last_name,
	       COALESCE(c.name, '')
	FROM blog_posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN categories c ON c.id = p.category_id`

// scanBlogPost scans a blogSelect row into a BlogPost struct.
func scanBlogPost(scanner interface{ Scan(...any) error }) (*models.BlogPost, error) {
	var p models.BlogPost
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Content, &p.Slug, &p.AuthorID, &p.CategoryID,
		&p.FeaturedImage, &p.IsPublished, &p.CreatedAt, &p.UpdatedAt,
		&p.AuthorUsername, &p.AuthorFirstName, &p.AuthorLastName,
		&p.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// collectBlogPosts drains rows into a slice.
func collectBlogPosts(rows *sql.Rows) ([]models.BlogPost, error) {
	defer rows.Close()
	var items []models.BlogPost
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// ListPublished returns published posts ordered newest first, with
// limit/offset pagination.
func (s *BlogStore) ListPublished(limit, offset int) ([]models.BlogPost, error) {
	rows, err := s.db.Query(blogSelect+`
		WHERE p.is_published
		ORDER BY p.created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	return collectBlogPosts(rows)
}

// CountPublished returns the number of published posts.
func (s *BlogStore) CountPublished() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM blog_posts WHERE is_published`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count published posts: %w", err)
	}
	return count, nil
}

// FindPublishedBySlug retrieves a published post by its slug. Returns nil
// if absent or unpublished.
func (s *BlogStore) FindPublishedBySlug(slug string) (*models.BlogPost, error) {
	row := s.db.QueryRow(blogSelect+` WHERE p.slug = $1 AND p.is_published`, slug)
	p, err := scanBlogPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// Related returns up to limit other published posts in the same category
// as the given post. A post without a category has no related posts.
func (s *BlogStore) Related(post *models.BlogPost, limit int) ([]models.BlogPost, error) {
	if post.CategoryID == nil {
		return nil, nil
	}

	rows, err := s.db.Query(blogSelect+`
		WHERE p.is_published AND p.category_id = $1 AND p.id <> $2
		ORDER BY p.created_at DESC
		LIMIT $3
	`, *post.CategoryID, post.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("list related posts: %w", err)
	}
	return collectBlogPosts(rows)
}

// Search returns published posts whose title or content contains the
// query, case-insensitively, newest first. An empty query matches nothing;
// callers enforce that before reaching the store.
func (s *BlogStore) Search(query string) ([]models.BlogPost, error) {
	rows, err := s.db.Query(blogSelect+`
		WHERE p.is_published AND (p.title ILIKE $1 OR p.content ILIKE $1)
		ORDER BY p.created_at DESC
	`, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("search blog posts: %w", err)
	}
	return collectBlogPosts(rows)
}

// Create inserts a new post. The slug is supplied by the caller and the
// write fails on collision.
func (s *BlogStore) Create(p *models.BlogPost) (*models.BlogPost, error) {
	var id uuid.UUID
	err := s.db.QueryRow(`
		INSERT INTO blog_posts (title, content, slug, author_id, category_id, featured_image, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, p.Title, p.Content, p.Slug, p.AuthorID, p.CategoryID, p.FeaturedImage, p.IsPublished).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create blog post: %w", err)
	}

	row := s.db.QueryRow(blogSelect+` WHERE p.id = $1`, id)
	created, err := scanBlogPost(row)
	if err != nil {
		return nil, fmt.Errorf("reload blog post: %w", err)
	}
	return created, nil
}

// Delete removes a post by ID.
func (s *BlogStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blog post: %w", err)
	}
	return nil
}
