// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the student portal:
// auth flows, the public site, the blog, the Q&A forum, and the JSON APIs.
package handlers

import (
	"bytes"
	"net/http"

	"onlystudies/internal/middleware"
	"onlystudies/internal/render"
)

// pageData builds a PageData with the session and CSRF token already
// resolved from the request, so individual handlers only fill in the
// page-specific parts.
func pageData(r *http.Request, title, section string, data map[string]any) *render.PageData {
	if data == nil {
		data = map[string]any{}
	}
	return &render.PageData{
		Title:     title,
		Section:   section,
		Session:   middleware.SessionFromCtx(r.Context()),
		CSRFToken: middleware.CSRFTokenFromCtx(r.Context()),
		Data:      data,
	}
}

// captureWriter buffers a rendered response so it can be stored in the
// page cache before being sent to the client.
type captureWriter struct {
	header http.Header
	buf    bytes.Buffer
	status int
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header), status: http.StatusOK}
}

func (cw *captureWriter) Header() http.Header { return cw.header }

func (cw *captureWriter) Write(b []byte) (int, error) { return cw.buf.Write(b) }

func (cw *captureWriter) WriteHeader(status int) { cw.status = status }

// flush copies the captured headers, status, and body to the real writer.
func (cw *captureWriter) flush(w http.ResponseWriter) {
	for k, vv := range cw.header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(cw.status)
	w.Write(cw.buf.Bytes())
}

// cacheable reports whether the response for this request may be served
// from or stored in the full-page cache. Logged-in users see their name
// in the header and flash messages are one-shot, so only anonymous
// requests without pending flashes qualify.
func cacheable(r *http.Request) bool {
	if middleware.SessionFromCtx(r.Context()) != nil {
		return false
	}
	if c, err := r.Cookie(render.FlashCookieName); err == nil && c.Value != "" {
		return false
	}
	return true
}
