package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"onlystudies/internal/middleware"
	"onlystudies/internal/render"
	"onlystudies/internal/session"
)

// requestWithSession returns a request whose context carries a logged-in
// session, simulating the state after LoadSession has run.
func requestWithSession(r *http.Request) *http.Request {
	data := &session.Data{
		UserID:      uuid.New(),
		Username:    "student1",
		Email:       "student1@example.com",
		DisplayName: "Student One",
	}
	ctx := context.WithValue(r.Context(), middleware.SessionKey, data)
	return r.WithContext(ctx)
}

func TestPageDataResolvesSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = requestWithSession(req)

	data := pageData(req, "Home", "home", nil)
	if data.Session == nil {
		t.Fatal("expected session to be resolved from context")
	}
	if data.Session.Username != "student1" {
		t.Errorf("username: got %q", data.Session.Username)
	}
	if data.Data == nil {
		t.Error("Data map should be initialized when nil is passed")
	}
}

func TestPageDataAnonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	data := pageData(req, "Home", "home", nil)
	if data.Session != nil {
		t.Errorf("expected nil session, got %+v", data.Session)
	}
}

func TestCacheable(t *testing.T) {
	t.Run("anonymous request is cacheable", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if !cacheable(req) {
			t.Error("anonymous request without flashes should be cacheable")
		}
	})

	t.Run("logged-in request is not cacheable", func(t *testing.T) {
		req := requestWithSession(httptest.NewRequest(http.MethodGet, "/", nil))
		if cacheable(req) {
			t.Error("logged-in request must not be cacheable")
		}
	})

	t.Run("pending flash is not cacheable", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: render.FlashCookieName, Value: "abc"})
		if cacheable(req) {
			t.Error("request with a pending flash must not be cacheable")
		}
	})
}

func TestCaptureWriter(t *testing.T) {
	cw := newCaptureWriter()
	cw.Header().Set("Content-Type", "text/html; charset=utf-8")
	cw.WriteHeader(http.StatusNotFound)
	cw.Write([]byte("<h1>missing</h1>"))

	rr := httptest.NewRecorder()
	cw.flush(rr)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("content type: got %q", got)
	}
	if rr.Body.String() != "<h1>missing</h1>" {
		t.Errorf("body: got %q", rr.Body.String())
	}
}

func TestFormatExamName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"entrance-exam", "Entrance Exam"},
		{"mba", "Mba"},
		{"MEDICAL-BOARD", "Medical Board"},
		{"one-two-three", "One Two Three"},
	}
	for _, tt := range tests {
		if got := formatExamName(tt.in); got != tt.want {
			t.Errorf("formatExamName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		url  string
		want int
	}{
		{"/blog", 1},
		{"/blog?page=3", 3},
		{"/blog?page=0", 1},
		{"/blog?page=-2", 1},
		{"/blog?page=abc", 1},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.url, nil)
		if got := parsePage(req); got != tt.want {
			t.Errorf("parsePage(%q) = %d, want %d", tt.url, got, tt.want)
		}
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{31, 15, 3},
	}
	for _, tt := range tests {
		if got := pageCount(tt.total, tt.size); got != tt.want {
			t.Errorf("pageCount(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("short", 200); got != "short" {
		t.Errorf("got %q", got)
	}
	long := make([]rune, 0, 250)
	for i := 0; i < 250; i++ {
		long = append(long, 'a')
	}
	if got := truncateRunes(string(long), 200); len([]rune(got)) != 200 {
		t.Errorf("expected 200 runes, got %d", len([]rune(got)))
	}
}

func TestParseCategoryID(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name  string
		value string
		want  *uuid.UUID
	}{
		{"empty means no category", "", nil},
		{"malformed means no category", "not-a-uuid", nil},
		{"valid uuid", id.String(), &id},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseCategoryID(tt.value)
			if tt.want == nil {
				if got != nil {
					t.Errorf("got %v, want nil", got)
				}
				return
			}
			if got == nil || *got != *tt.want {
				t.Errorf("got %v, want %s", got, tt.want)
			}
		})
	}
}

// TestNotFoundClearsFlash verifies that a pending flash shown on the 404
// page is cleared, even though the handler writes a non-200 status.
func TestNotFoundClearsFlash(t *testing.T) {
	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	site := NewSite(renderer, nil, nil, nil, nil)

	// Queue a flash the way a redirecting handler would.
	seed := httptest.NewRecorder()
	render.SetFlash(seed, render.FlashError, "That page is gone.")
	flashCookie := seed.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/no-such-page", nil)
	req.AddCookie(flashCookie)
	rr := httptest.NewRecorder()
	site.NotFound(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rr.Code)
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte("That page is gone.")) {
		t.Error("expected the pending flash to be rendered on the 404 page")
	}

	var cleared bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == render.FlashCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected the flash cookie to be cleared alongside the 404")
	}
}

func TestPageDataResolvesCSRFToken(t *testing.T) {
	var data *render.PageData
	csrf := middleware.NewCSRF(false)
	handler := csrf(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data = pageData(r, "Home", "home", nil)
	}))

	// First visit: no cookie yet, the token must still reach the form.
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if data.CSRFToken == "" {
		t.Error("expected pageData to carry the CSRF token on a first visit")
	}
}
