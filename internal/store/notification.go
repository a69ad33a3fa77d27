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

// NotificationStore manages per-user notifications.
type NotificationStore struct {
	db *sql.DB
}

// NewNotificationStore returns a new NotificationStore.
func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

const notificationColumns = `id, user_id, title, message, notification_type, is_read, related_url, created_at`

// Create inserts a notification for a user.
func (s *NotificationStore) Create(n *models.Notification) (*models.Notification, error) {
	if n.Type == "" {
		n.Type = models.NotificationSystem
	}

	result := &models.Notification{}
	err := s.db.QueryRow(`
		INSERT INTO notifications (user_id, title, message, notification_type, related_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+notificationColumns,
		n.UserID, n.Title, n.Message, n.Type, n.RelatedURL,
	).Scan(
		&result.ID, &result.UserID, &result.Title, &result.Message,
		&result.Type, &result.IsRead, &result.RelatedURL, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return result, nil
}

// ListUnread returns up to limit unread notifications for a user, newest
// first. Read notifications and other users' notifications never appear.
func (s *NotificationStore) ListUnread(userID uuid.UUID, limit int) ([]models.Notification, error) {
	rows, err := s.db.Query(`
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE user_id = $1 AND NOT is_read
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}
	defer rows.Close()

	var items []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.Title, &n.Message,
			&n.Type, &n.IsRead, &n.RelatedURL, &n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// MarkRead flags a single notification as read.
func (s *NotificationStore) MarkRead(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead flags all of a user's notifications as read.
func (s *NotificationStore) MarkAllRead(userID uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE notifications SET is_read = TRUE WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}
