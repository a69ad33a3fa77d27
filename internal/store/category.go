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

// CategoryStore manages categories and subcategories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, created_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by name.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`SELECT ` + categoryColumns + ` FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// ListWithSubCategories returns all categories ordered by name with their
// subcategories populated. Used by the home page category grid.
func (s *CategoryStore) ListWithSubCategories() ([]models.Category, error) {
	items, err := s.List()
	if err != nil {
		return nil, err
	}
	for i := range items {
		subs, err := s.SubCategoriesOf(items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].SubCategories = subs
	}
	return items, nil
}

// FindBySlug retrieves a category by its slug with its subcategories
// populated. Returns nil if not found.
func (s *CategoryStore) FindBySlug(slug string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}

	subs, err := s.SubCategoriesOf(c.ID)
	if err != nil {
		return nil, err
	}
	c.SubCategories = subs
	return c, nil
}

// SubCategoriesOf returns the subcategories of a category ordered by name.
func (s *CategoryStore) SubCategoriesOf(categoryID uuid.UUID) ([]models.SubCategory, error) {
	rows, err := s.db.Query(`
		SELECT id, category_id, name, slug, description, created_at
		FROM subcategories
		WHERE category_id = $1
		ORDER BY name
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	var items []models.SubCategory
	for rows.Next() {
		var sc models.SubCategory
		if err := rows.Scan(&sc.ID, &sc.CategoryID, &sc.Name, &sc.Slug, &sc.Description, &sc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		items = append(items, sc)
	}
	return items, rows.Err()
}

// FindSubBySlug retrieves a subcategory by its slug within a category.
// Returns nil if not found.
func (s *CategoryStore) FindSubBySlug(categoryID uuid.UUID, slug string) (*models.SubCategory, error) {
	var sc models.SubCategory
	err := s.db.QueryRow(`
		SELECT id, category_id, name, slug, description, created_at
		FROM subcategories
		WHERE category_id = $1 AND slug = $2
	`, categoryID, slug).Scan(&sc.ID, &sc.CategoryID, &sc.Name, &sc.Slug, &sc.Description, &sc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subcategory by slug: %w", err)
	}
	return &sc, nil
}

// Create inserts a new category. The write fails on a name or slug
// collision; slugs are supplied by the caller, never auto-corrected.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// CreateSub inserts a new subcategory. The write fails when the
// (category, slug) pair already exists.
func (s *CategoryStore) CreateSub(sc *models.SubCategory) (*models.SubCategory, error) {
	result := &models.SubCategory{}
	err := s.db.QueryRow(`
		INSERT INTO subcategories (category_id, name, slug, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, category_id, name, slug, description, created_at
	`, sc.CategoryID, sc.Name, sc.Slug, sc.Description).Scan(
		&result.ID, &result.CategoryID, &result.Name, &result.Slug,
		&result.Description, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create subcategory: %w", err)
	}
	return result, nil
}

// Delete removes a category by ID. Subcategories cascade; blog posts and
// forum questions keep their rows with the category reference cleared
// (ON DELETE SET NULL).
func (s *CategoryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
