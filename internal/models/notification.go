// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType classifies a notification for display purposes.
type NotificationType string

const (
	NotificationCourse      NotificationType = "course"
	NotificationForum       NotificationType = "forum"
	NotificationAchievement NotificationType = "achievement"
	NotificationSystem      NotificationType = "system"
)

// Notification is a message delivered to a single user. Deleting the
// user removes their notifications.
type Notification struct {
	ID         uuid.UUID        `json:"id"`
	UserID     uuid.UUID        `json:"user_id"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	Type       NotificationType `json:"type"`
	IsRead     bool             `json:"is_read"`
	RelatedURL *string          `json:"url"`
	CreatedAt  time.Time        `json:"created_at"`
}
