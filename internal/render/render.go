// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the student portal.
// Page templates are embedded at build time and paired with the base layout;
// auth pages (login, signup) render standalone without it.
package render

import (
	"embed"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"onlystudies/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// FlashCookieName is the cookie that carries one-time messages across a
// redirect.
const FlashCookieName = "os_flash"

// Flash types understood by the base layout.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// PageData holds all data passed to portal templates.
type PageData struct {
	Title     string         // Page title for <title> tag
	Section   string         // Active nav section (e.g., "home", "blog", "forum")
	Session   *session.Data  // Current user session (nil if unauthenticated)
	CSRFToken string         // CSRF token for forms
	Data      map[string]any // Page-specific data
	Flashes   []Flash        // One-time notification messages
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Renderer handles template parsing and execution for portal pages.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// standaloneTemplates lists templates that render as full HTML pages
// without the base layout (they have their own <html>, <head>, etc.).
var standaloneTemplates = map[string]bool{
	"login":  true,
	"signup": true,
}

// New creates a Renderer by parsing all portal templates from the embedded
// filesystem. Each page template is paired with the base layout.
func New() (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			// deref safely dereferences a string pointer for use in templates.
			"deref": func(s *string) string {
				if s == nil {
					return ""
				}
				return *s
			},
			// excerpt truncates plain text to n runes for list views.
			"excerpt": func(s string, n int) string {
				return Excerpt(s, n)
			},
			// pluralize appends "s" unless the count is exactly one.
			"pluralize": func(n int, word string) string {
				if n == 1 {
					return word
				}
				return word + "s"
			},
			// seq generates page numbers for pagination links.
			"seq": func(from, to int) []int {
				if to < from {
					return nil
				}
				out := make([]int, 0, to-from+1)
				for i := from; i <= to; i++ {
					out = append(out, i)
				}
				return out
			},
			"add": func(a, b int) int { return a + b },
			"sub": func(a, b int) int { return a - b },
		},
	}

	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := filepath.Base(e.Name())
		if name == "base.html" {
			continue
		}

		tmplName := strings.TrimSuffix(name, ".html")

		var tmpl *template.Template
		var parseErr error

		if standaloneTemplates[tmplName] {
			tmpl, parseErr = template.New(name).Funcs(r.funcMap).ParseFS(
				templateFS, "templates/"+name,
			)
		} else {
			tmpl, parseErr = template.New("base.html").Funcs(r.funcMap).ParseFS(
				templateFS, "templates/base.html", "templates/"+name,
			)
		}

		if parseErr != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, parseErr)
		}

		r.templates[tmplName] = tmpl
	}

	return r, nil
}

// Page renders a full portal page. Pending flash messages are popped from
// the flash cookie and merged into the page data.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = &PageData{}
	}
	data.Flashes = append(data.Flashes, PopFlashes(w, r)...)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	execName := "base.html"
	if standaloneTemplates[name] {
		execName = name + ".html"
	}

	if err := executeTemplate(w, tmpl, execName, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// executeTemplate wraps template execution with error handling.
func executeTemplate(w io.Writer, tmpl *template.Template, name string, data any) error {
	return tmpl.ExecuteTemplate(w, name, data)
}

// SetFlash queues a one-time message to be shown on the next rendered page.
// Messages survive a redirect via a short-lived cookie.
func SetFlash(w http.ResponseWriter, flashType, message string) {
	flashes := []Flash{{Type: flashType, Message: message}}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    encodeFlashes(flashes),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlashes reads pending flash messages from the request cookie and
// clears the cookie so each message is shown exactly once.
func PopFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	cookie, err := r.Cookie(FlashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	// Clear the cookie regardless of whether decoding succeeds; a
	// corrupt value should not stick around.
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return decodeFlashes(cookie.Value)
}

// Excerpt truncates plain text to at most n runes, appending an ellipsis
// when the text was cut.
func Excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimRight(string(runes[:n]), " ") + "..."
}

func encodeFlashes(flashes []Flash) string {
	b, err := json.Marshal(flashes)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(b)
}

func decodeFlashes(value string) []Flash {
	b, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(b, &flashes); err != nil {
		return nil
	}
	return flashes
}
