package handlers

import (
	"log/slog"
	"net/http"

	"onlystudies/internal/middleware"
	"onlystudies/internal/render"
	"onlystudies/internal/session"
	"onlystudies/internal/store"
)

// Auth groups the signup, login, and logout handlers.
type Auth struct {
	renderer  *render.Renderer
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{
		renderer:  renderer,
		sessions:  sessions,
		userStore: userStore,
	}
}

// SignupPage renders the signup form. Logged-in users are sent home.
func (a *Auth) SignupPage(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "signup", pageData(r, "Sign Up", "", nil))
}

// SignupSubmit validates the signup form, creates the user, and logs
// them straight in.
func (a *Auth) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	email := r.FormValue("email")
	firstName := r.FormValue("first_name")
	lastName := r.FormValue("last_name")
	password := r.FormValue("password")
	passwordConfirm := r.FormValue("password_confirm")

	errs := validateSignup(username, email, password, passwordConfirm)

	// Uniqueness checks hit the database, so only run them once the
	// cheap format checks pass.
	if len(errs) == 0 {
		existing, err := a.userStore.FindByUsername(username)
		if err != nil {
			a.signupError(w, r, username, email, firstName, lastName)
			return
		}
		if existing != nil {
			errs = append(errs, "This username is already taken.")
		}

		existing, err = a.userStore.FindByEmail(email)
		if err != nil {
			a.signupError(w, r, username, email, firstName, lastName)
			return
		}
		if existing != nil {
			errs = append(errs, "This email address is already registered.")
		}
	}

	if len(errs) > 0 {
		a.renderer.Page(w, r, "signup", pageData(r, "Sign Up", "", map[string]any{
			"Errors":    errs,
			"Username":  username,
			"Email":     email,
			"FirstName": firstName,
			"LastName":  lastName,
		}))
		return
	}

	user, err := a.userStore.Create(username, email, password, firstName, lastName)
	if err != nil {
		slog.Error("signup create user failed", "error", err)
		a.signupError(w, r, username, email, firstName, lastName)
		return
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName(),
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	render.SetFlash(w, render.FlashSuccess, "Welcome to OnlyStudies, "+user.DisplayName()+"!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *Auth) signupError(w http.ResponseWriter, r *http.Request, username, email, firstName, lastName string) {
	a.renderer.Page(w, r, "signup", pageData(r, "Sign Up", "", map[string]any{
		"Errors":    []string{"An unexpected error occurred. Please try again."},
		"Username":  username,
		"Email":     email,
		"FirstName": firstName,
		"LastName":  lastName,
	}))
}

// LoginPage renders the login form. Logged-in users are sent home.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "login", pageData(r, "Log in", "", nil))
}

// LoginSubmit checks the credentials and starts a session.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := a.userStore.FindByUsername(username)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		a.renderer.Page(w, r, "login", pageData(r, "Log in", "", map[string]any{
			"Errors":   []string{"An unexpected error occurred."},
			"Username": username,
		}))
		return
	}

	// Same message for unknown user and bad password, to avoid
	// leaking which usernames exist.
	if user == nil || !a.userStore.CheckPassword(user, password) {
		a.renderer.Page(w, r, "login", pageData(r, "Log in", "", map[string]any{
			"Errors":   []string{"Invalid username or password."},
			"Username": username,
		}))
		return
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName(),
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout destroys the session and redirects to the home page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(r.Context(), w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
