// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"onlystudies/internal/middleware"
	"onlystudies/internal/store"
)

// apiFeedLimit caps how many items the JSON feed endpoints return.
const apiFeedLimit = 5

// API groups the JSON endpoints consumed by the portal's client-side
// widgets: the blog feed and the notification bell.
type API struct {
	blogStore         *store.BlogStore
	notificationStore *store.NotificationStore
}

// NewAPI creates a new API handler group.
func NewAPI(blogStore *store.BlogStore, notificationStore *store.NotificationStore) *API {
	return &API{
		blogStore:         blogStore,
		notificationStore: notificationStore,
	}
}

// blogFeedItem is the wire shape of a post in the blog feed endpoint.
type blogFeedItem struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	Author        string  `json:"author"`
	Category      string  `json:"category"`
	FeaturedImage *string `json:"featured_image"`
	CreatedAt     string  `json:"created_at"`
	Slug          string  `json:"slug"`
}

// notificationItem is the wire shape of a notification in the
// notifications endpoint.
type notificationItem struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	Type      string  `json:"type"`
	IsRead    bool    `json:"is_read"`
	CreatedAt string  `json:"created_at"`
	URL       *string `json:"url"`
}

// BlogFeed returns the latest published posts as JSON. Content is
// truncated to its first 200 characters; posts without a category
// report "General".
func (a *API) BlogFeed(w http.ResponseWriter, r *http.Request) {
	posts, err := a.blogStore.ListPublished(apiFeedLimit, 0)
	if err != nil {
		slog.Error("blog feed api failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"blogs": []blogFeedItem{},
			"error": "Internal server error",
		})
		return
	}

	items := make([]blogFeedItem, 0, len(posts))
	for _, post := range posts {
		item := blogFeedItem{
			ID:        post.ID.String(),
			Title:     post.Title,
			Content:   truncateRunes(post.Content, 200),
			Author:    post.AuthorDisplayName(),
			Category:  post.CategoryName,
			CreatedAt: post.CreatedAt.Format(time.RFC3339),
			Slug:      post.Slug,
		}
		if item.Category == "" {
			item.Category = "General"
		}
		if post.FeaturedImage != "" {
			img := post.FeaturedImage
			item.FeaturedImage = &img
		}
		items = append(items, item)
	}

	writeJSON(w, http.StatusOK, map[string]any{"blogs": items})
}

// Notifications returns the latest unread notifications for the
// logged-in user. Anonymous callers get a 401 with an empty list.
func (a *API) Notifications(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"notifications": []notificationItem{},
			"error":         "User not authenticated",
		})
		return
	}

	notifications, err := a.notificationStore.ListUnread(sess.UserID, apiFeedLimit)
	if err != nil {
		slog.Error("notifications api failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"notifications": []notificationItem{},
			"error":         "Internal server error",
		})
		return
	}

	items := make([]notificationItem, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, notificationItem{
			ID:        n.ID.String(),
			Title:     n.Title,
			Message:   n.Message,
			Type:      string(n.Type),
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
			URL:       n.RelatedURL,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"notifications": items})
}

// truncateRunes cuts s to at most n runes without an ellipsis, matching
// the feed's raw truncation.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode json response failed", "error", err)
	}
}
