package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"onlystudies/internal/cache"
	"onlystudies/internal/handlers"
	"onlystudies/internal/middleware"
	"onlystudies/internal/render"
	"onlystudies/internal/session"
	"onlystudies/internal/store"
)

// newTestRouter wires up the full router with nil database handles and an
// unconnected Valkey client. Requests without a session cookie never touch
// either backend, which is enough to exercise routing, middleware order,
// and the handlers that don't need storage.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	sessions := session.NewStore(client, false)
	pageCache := cache.NewPageCache(client, time.Minute)

	userStore := store.NewUserStore(nil)
	categoryStore := store.NewCategoryStore(nil)
	blogStore := store.NewBlogStore(nil)
	forumStore := store.NewForumStore(nil)
	notificationStore := store.NewNotificationStore(nil)

	limiter := middleware.NewRateLimiter(100, time.Minute)
	t.Cleanup(limiter.Stop)

	auth := handlers.NewAuth(renderer, sessions, userStore)
	site := handlers.NewSite(renderer, categoryStore, blogStore, forumStore, pageCache)
	blog := handlers.NewBlog(renderer, blogStore, pageCache)
	forum := handlers.NewForum(renderer, forumStore, categoryStore, notificationStore)
	api := handlers.NewAPI(blogStore, notificationStore)

	return New(sessions, limiter, auth, site, blog, forum, api, false)
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q", body["status"])
	}
}

func TestLoginPageRenders(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Log in") {
		t.Error("expected login form in body")
	}
}

func TestSignupPageRenders(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/signup", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Create your account") {
		t.Error("expected signup form in body")
	}
}

func TestAskQuestionRequiresLogin(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/forum/ask", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect: got %q, want /login", loc)
	}
}

func TestNotificationsAPIWithoutSession(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/notifications/", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", rr.Code)
	}
}

func TestUnknownRouteRenders404Page(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/no/such/page", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "404") {
		t.Error("expected styled 404 page in body")
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options: got %q", got)
	}
	if got := rr.Header().Get("X-Frame-Options"); got != "SAMEORIGIN" {
		t.Errorf("X-Frame-Options: got %q", got)
	}
}

func TestCSRFCookieSetOnFormPages(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var found bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.CSRFCookieName && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("expected CSRF cookie to be set on a form page")
	}
}

// TestFirstVisitFormPostAccepted covers the whole first-visit flow: a
// browser with no cookies loads a form page, and the token embedded in
// the rendered form must be accepted on the immediately following POST.
func TestFirstVisitFormPostAccepted(t *testing.T) {
	r := newTestRouter(t)

	getReq := httptest.NewRequest(http.MethodGet, "/login", nil)
	getRR := httptest.NewRecorder()
	r.ServeHTTP(getRR, getReq)

	if getRR.Code != http.StatusOK {
		t.Fatalf("GET /login: got %d, want 200", getRR.Code)
	}

	// Pull the token out of the rendered hidden field.
	const marker = `name="csrf_token" value="`
	body := getRR.Body.String()
	start := strings.Index(body, marker)
	if start < 0 {
		t.Fatal("rendered form has no csrf_token field")
	}
	start += len(marker)
	end := strings.Index(body[start:], `"`)
	if end <= 0 {
		t.Fatal("rendered csrf_token field is empty")
	}
	formToken := body[start : start+end]

	var cookieToken string
	for _, c := range getRR.Result().Cookies() {
		if c.Name == middleware.CSRFCookieName {
			cookieToken = c.Value
		}
	}
	if formToken != cookieToken {
		t.Errorf("form token %q != cookie token %q", formToken, cookieToken)
	}

	// Replay the cookies and the form token, as a browser would.
	form := middleware.CSRFFormField + "=" + formToken
	postReq := httptest.NewRequest(http.MethodPost, "/logout", strings.NewReader(form))
	postReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range getRR.Result().Cookies() {
		postReq.AddCookie(c)
	}
	postRR := httptest.NewRecorder()
	r.ServeHTTP(postRR, postReq)

	if postRR.Code == http.StatusForbidden {
		t.Fatalf("first-visit form post rejected: %s", postRR.Body.String())
	}
	if postRR.Code != http.StatusSeeOther {
		t.Errorf("POST /logout: got %d, want 303", postRR.Code)
	}
}

func TestStaticAssetsServed(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/static/css/app.css", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "--brand") {
		t.Error("expected stylesheet contents")
	}
}
