// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"onlystudies/internal/models"
	"onlystudies/internal/slug"
)

// ForumStore handles forum questions and answers.
type ForumStore struct {
	db *sql.DB
}

// NewForumStore creates a new ForumStore with the given database connection.
func NewForumStore(db *sql.DB) *ForumStore {
	return &ForumStore{db: db}
}

const questionSelect = `
	SELECT q.id, q.title, q.content, q.slug, q.author_id, q.category_id,
	       q.is_answered, q.views, q.created_at, q.updated_at,
	       u.username, u.first_name, u.last_name,
	       COALESCE(c.name, ''),
	       (SELECT COUNT(*) FROM forum_answers a WHERE a.question_id = q.id)
	FROM forum_questions q
	JOIN users u ON u.id = q.author_id
	LEFT JOIN categories c ON c.id = q.category_id`

// scanQuestion scans a questionSelect row into a ForumQuestion struct.
func scanQuestion(scanner interface{ Scan(...any) error }) (*models.ForumQuestion, error) {
	var q models.ForumQuestion
	err := scanner.Scan(
		&q.ID, &q.Title, &q.Content, &q.Slug, &q.AuthorID, &q.CategoryID,
		&q.IsAnswered, &q.Views, &q.CreatedAt, &q.UpdatedAt,
		&q.AuthorUsername, &q.AuthorFirstName, &q.AuthorLastName,
		&q.CategoryName, &q.AnswerCount,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// collectQuestions drains rows into a slice.
func collectQuestions(rows *sql.Rows) ([]models.ForumQuestion, error) {
	defer rows.Close()
	var items []models.ForumQuestion
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		items = append(items, *q)
	}
	return items, rows.Err()
}

// ListQuestions returns questions newest first with limit/offset
// pagination. Each question carries its answer count.
func (s *ForumStore) ListQuestions(limit, offset int) ([]models.ForumQuestion, error) {
	rows, err := s.db.Query(questionSelect+`
		ORDER BY q.created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return collectQuestions(rows)
}

// CountQuestions returns the total number of forum questions.
func (s *ForumStore) CountQuestions() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM forum_questions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return count, nil
}

// FindQuestionBySlug retrieves a question by its slug. Returns nil if not
// found. It does not touch the views counter; see IncrementViews.
func (s *ForumStore) FindQuestionBySlug(questionSlug string) (*models.ForumQuestion, error) {
	row := s.db.QueryRow(questionSelect+` WHERE q.slug = $1`, questionSlug)
	q, err := scanQuestion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find question by slug: %w", err)
	}
	return q, nil
}

// SlugExists reports whether any question already uses the given slug.
func (s *ForumStore) SlugExists(questionSlug string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM forum_questions WHERE slug = $1)`, questionSlug,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check question slug: %w", err)
	}
	return exists, nil
}

// CreateQuestion inserts a new question, deriving its slug from the title
// with sequential suffix probing against existing slugs. The slug is
// assigned exactly once here; later title edits never recompute it.
// Two concurrent creations with the same title can race between probe and
// insert; the loser surfaces a unique-violation error.
func (s *ForumStore) CreateQuestion(q *models.ForumQuestion) (*models.ForumQuestion, error) {
	base := slug.Generate(q.Title)
	unique, err := slug.Unique(base, s.SlugExists)
	if err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}

	var id uuid.UUID
	err = s.db.QueryRow(`
		INSERT INTO forum_questions (title, content, slug, author_id, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, q.Title, q.Content, unique, q.AuthorID, q.CategoryID).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}

	row := s.db.QueryRow(questionSelect+` WHERE q.id = $1`, id)
	created, err := scanQuestion(row)
	if err != nil {
		return nil, fmt.Errorf("reload question: %w", err)
	}
	return created, nil
}

// IncrementViews adds one to the question's views counter. The counter is
// read-mostly; concurrent detail requests may lose an increment and that
// is tolerated.
func (s *ForumStore) IncrementViews(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE forum_questions SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// MarkAnswered flips is_answered to true. The flag only ever transitions
// false to true; nothing resets it.
func (s *ForumStore) MarkAnswered(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE forum_questions SET is_answered = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark answered: %w", err)
	}
	return nil
}

// SearchQuestions returns questions whose title or content contains the
// query, case-insensitively, newest first.
func (s *ForumStore) SearchQuestions(query string) ([]models.ForumQuestion, error) {
	rows, err := s.db.Query(questionSelect+`
		WHERE q.title ILIKE $1 OR q.content ILIKE $1
		ORDER BY q.created_at DESC
	`, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("search questions: %w", err)
	}
	return collectQuestions(rows)
}

// DeleteQuestion removes a question by ID. Its answers cascade.
func (s *ForumStore) DeleteQuestion(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM forum_questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return nil
}

const answerSelect = `
	SELECT a.id, a.question_id, a.content, a.author_id, a.is_accepted,
	       a.created_at, a.updated_at,
	       u.username, u.first_name, u.last_name
	FROM forum_answers a
	JOIN users u ON u.id = a.author_id`

// scanAnswer scans an answerSelect row into a ForumAnswer struct.
func scanAnswer(scanner interface{ Scan(...any) error }) (*models.ForumAnswer, error) {
	var a models.ForumAnswer
	err := scanner.Scan(
		&a.ID, &a.QuestionID, &a.Content, &a.AuthorID, &a.IsAccepted,
		&a.CreatedAt, &a.UpdatedAt,
		&a.AuthorUsername, &a.AuthorFirstName, &a.AuthorLastName,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAnswers returns a question's answers, accepted first, then oldest
// first.
func (s *ForumStore) ListAnswers(questionID uuid.UUID) ([]models.ForumAnswer, error) {
	rows, err := s.db.Query(answerSelect+`
		WHERE a.question_id = $1
		ORDER BY a.is_accepted DESC, a.created_at ASC
	`, questionID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	var items []models.ForumAnswer
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// CreateAnswer inserts an answer to a question.
func (s *ForumStore) CreateAnswer(a *models.ForumAnswer) (*models.ForumAnswer, error) {
	var id uuid.UUID
	err := s.db.QueryRow(`
		INSERT INTO forum_answers (question_id, content, author_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, a.QuestionID, a.Content, a.AuthorID).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create answer: %w", err)
	}

	row := s.db.QueryRow(answerSelect+` WHERE a.id = $1`, id)
	created, err := scanAnswer(row)
	if err != nil {
		return nil, fmt.Errorf("reload answer: %w", err)
	}
	return created, nil
}

// AcceptAnswer flags an answer as the accepted one for its question.
func (s *ForumStore) AcceptAnswer(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE forum_answers SET is_accepted = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("accept answer: %w", err)
	}
	return nil
}
