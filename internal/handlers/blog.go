// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"onlystudies/internal/cache"
	"onlystudies/internal/markdown"
	"onlystudies/internal/render"
	"onlystudies/internal/store"
)

// blogPageSize is how many posts a blog feed page shows.
const blogPageSize = 10

// Blog groups the blog feed and post detail handlers.
type Blog struct {
	renderer  *render.Renderer
	blogStore *store.BlogStore
	pageCache *cache.PageCache
}

// NewBlog creates a new Blog handler group.
func NewBlog(renderer *render.Renderer, blogStore *store.BlogStore, pageCache *cache.PageCache) *Blog {
	return &Blog{
		renderer:  renderer,
		blogStore: blogStore,
		pageCache: pageCache,
	}
}

// Feed renders a page of published posts, newest first.
func (b *Blog) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := parsePage(r)

	useCache := cacheable(r)
	if useCache {
		if cached, ok := b.pageCache.Get(ctx, cache.BlogFeedKey(page)); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(cached)
			return
		}
	}

	total, err := b.blogStore.CountPublished()
	if err != nil {
		slog.Error("count published posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	totalPages := pageCount(total, blogPageSize)
	if page > totalPages && totalPages > 0 {
		page = totalPages
	}

	posts, err := b.blogStore.ListPublished(blogPageSize, (page-1)*blogPageSize)
	if err != nil {
		slog.Error("list published posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := pageData(r, "Blog Feed", "blog", map[string]any{
		"Posts":      posts,
		"Page":       page,
		"TotalPages": totalPages,
	})

	if useCache {
		cw := newCaptureWriter()
		b.renderer.Page(cw, r, "blog_feed", data)
		if cw.status == http.StatusOK {
			b.pageCache.Set(ctx, cache.BlogFeedKey(page), cw.buf.Bytes())
		}
		cw.flush(w)
		return
	}

	b.renderer.Page(w, r, "blog_feed", data)
}

// Detail renders a single published post with up to four related posts
// from the same category. Unpublished posts 404.
func (b *Blog) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")

	useCache := cacheable(r)
	if useCache {
		if cached, ok := b.pageCache.Get(ctx, cache.BlogPostKey(slugParam)); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(cached)
			return
		}
	}

	post, err := b.blogStore.FindPublishedBySlug(slugParam)
	if err != nil {
		slog.Error("find post failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if post == nil {
		http.NotFound(w, r)
		return
	}

	related, err := b.blogStore.Related(post, 4)
	if err != nil {
		slog.Error("related posts failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	contentHTML, err := markdown.ToHTML(post.Content)
	if err != nil {
		slog.Error("render post markdown failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := pageData(r, post.Title, "blog", map[string]any{
		"Post":        post,
		"Related":     related,
		"ContentHTML": template.HTML(contentHTML),
	})

	if useCache {
		cw := newCaptureWriter()
		b.renderer.Page(cw, r, "blog_detail", data)
		if cw.status == http.StatusOK {
			b.pageCache.Set(ctx, cache.BlogPostKey(slugParam), cw.buf.Bytes())
		}
		cw.flush(w)
		return
	}

	b.renderer.Page(w, r, "blog_detail", data)
}

// parsePage reads the ?page= query parameter, defaulting to 1.
func parsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// pageCount returns how many pages are needed for total items at the
// given page size. Zero items still produce one (empty) page.
func pageCount(total, size int) int {
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}
