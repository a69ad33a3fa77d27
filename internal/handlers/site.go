// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"onlystudies/internal/cache"
	"onlystudies/internal/render"
	"onlystudies/internal/store"
)

// Site groups handlers for the general portal pages: home, category
// browsing, search, and the exam application page. The home and category
// pages are served through the Valkey full-page cache for anonymous
// visitors.
type Site struct {
	renderer      *render.Renderer
	categoryStore *store.CategoryStore
	blogStore     *store.BlogStore
	forumStore    *store.ForumStore
	pageCache     *cache.PageCache
}

// NewSite creates a new Site handler group.
func NewSite(renderer *render.Renderer, categoryStore *store.CategoryStore, blogStore *store.BlogStore, forumStore *store.ForumStore, pageCache *cache.PageCache) *Site {
	return &Site{
		renderer:      renderer,
		categoryStore: categoryStore,
		blogStore:     blogStore,
		forumStore:    forumStore,
		pageCache:     pageCache,
	}
}

// Home renders the landing page with the category grid and the latest
// blog posts.
func (s *Site) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	useCache := cacheable(r)
	if useCache {
		if cached, ok := s.pageCache.Get(ctx, cache.HomeKey()); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(cached)
			return
		}
	}

	categories, err := s.categoryStore.ListWithSubCategories()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	recent, err := s.blogStore.ListPublished(5, 0)
	if err != nil {
		slog.Error("list recent posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := pageData(r, "Home", "home", map[string]any{
		"Categories":  categories,
		"RecentPosts": recent,
	})

	if useCache {
		cw := newCaptureWriter()
		s.renderer.Page(cw, r, "home", data)
		if cw.status == http.StatusOK {
			s.pageCache.Set(ctx, cache.HomeKey(), cw.buf.Bytes())
		}
		cw.flush(w)
		return
	}

	s.renderer.Page(w, r, "home", data)
}

// Category renders a category page with its subcategories.
func (s *Site) Category(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "categorySlug")

	useCache := cacheable(r)
	if useCache {
		if cached, ok := s.pageCache.Get(ctx, cache.CategoryKey(slugParam)); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(cached)
			return
		}
	}

	category, err := s.categoryStore.FindBySlug(slugParam)
	if err != nil {
		slog.Error("find category failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if category == nil {
		s.NotFound(w, r)
		return
	}

	data := pageData(r, category.Name, "home", map[string]any{
		"Category": category,
	})

	if useCache {
		cw := newCaptureWriter()
		s.renderer.Page(cw, r, "category", data)
		if cw.status == http.StatusOK {
			s.pageCache.Set(ctx, cache.CategoryKey(slugParam), cw.buf.Bytes())
		}
		cw.flush(w)
		return
	}

	s.renderer.Page(w, r, "category", data)
}

// SubCategory renders a subcategory page. The subcategory slug is only
// unique within its parent, so both slugs participate in the lookup.
func (s *Site) SubCategory(w http.ResponseWriter, r *http.Request) {
	categorySlug := chi.URLParam(r, "categorySlug")
	subSlug := chi.URLParam(r, "subcategorySlug")

	category, err := s.categoryStore.FindBySlug(categorySlug)
	if err != nil {
		slog.Error("find category failed", "error", err, "slug", categorySlug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if category == nil {
		s.NotFound(w, r)
		return
	}

	sub, err := s.categoryStore.FindSubBySlug(category.ID, subSlug)
	if err != nil {
		slog.Error("find subcategory failed", "error", err, "slug", subSlug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if sub == nil {
		s.NotFound(w, r)
		return
	}

	s.renderer.Page(w, r, "subcategory", pageData(r, sub.Name, "home", map[string]any{
		"Category":    category,
		"SubCategory": sub,
	}))
}

// Search runs a combined search over published blog posts and forum
// questions. An empty query renders the page with no results.
func (s *Site) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	data := map[string]any{"Query": query}

	if query != "" {
		posts, err := s.blogStore.Search(query)
		if err != nil {
			slog.Error("blog search failed", "error", err, "query", query)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		questions, err := s.forumStore.SearchQuestions(query)
		if err != nil {
			slog.Error("forum search failed", "error", err, "query", query)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		data["Posts"] = posts
		data["Questions"] = questions
	}

	s.renderer.Page(w, r, "search_results", pageData(r, "Search", "", data))
}

// ApplyExam renders the exam application page. The exam name comes from
// the URL with hyphens turned into spaces and title-cased, so
// /apply/entrance-exam shows "Entrance Exam".
func (s *Site) ApplyExam(w http.ResponseWriter, r *http.Request) {
	examName := formatExamName(chi.URLParam(r, "examName"))

	s.renderer.Page(w, r, "apply_exam", pageData(r, "Apply for "+examName, "", map[string]any{
		"ExamName": examName,
	}))
}

// NotFound renders the styled 404 page. Rendering buffers first so the
// flash-clearing Set-Cookie lands before the status is written.
func (s *Site) NotFound(w http.ResponseWriter, r *http.Request) {
	cw := newCaptureWriter()
	s.renderer.Page(cw, r, "notfound", pageData(r, "Page Not Found", "", nil))
	if cw.status != http.StatusOK {
		cw.flush(w)
		return
	}
	cw.WriteHeader(http.StatusNotFound)
	cw.flush(w)
}

// formatExamName turns a URL segment like "entrance-exam" into a
// display name like "Entrance Exam".
func formatExamName(segment string) string {
	words := strings.Split(strings.ReplaceAll(segment, "-", " "), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
