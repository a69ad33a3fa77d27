package handlers

import (
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Validation limits for user-submitted fields.
const (
	minUsernameLen = 3
	maxUsernameLen = 150
	minPasswordLen = 8
	minTitleLen    = 10
	maxTitleLen    = 200
	minQuestionLen = 20
	minAnswerLen   = 10
	maxBodyLen     = 100_000
)

// commonPasswords holds passwords rejected outright regardless of length.
var commonPasswords = map[string]bool{
	"password":   true,
	"password1":  true,
	"12345678":   true,
	"123456789":  true,
	"qwertyuiop": true,
	"iloveyou":   true,
	"admin123":   true,
	"letmein1":   true,
}

// validateSignup checks the signup form fields and returns every error
// found, so the form can show them all at once.
func validateSignup(username, email, password, passwordConfirm string) []string {
	var errs []string

	username = strings.TrimSpace(username)
	if utf8.RuneCountInString(username) < minUsernameLen {
		errs = append(errs, "Username must be at least 3 characters long.")
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		errs = append(errs, "Username is too long.")
	}

	if _, err := mail.ParseAddress(email); err != nil {
		errs = append(errs, "Enter a valid email address.")
	}

	errs = append(errs, validatePassword(password)...)

	if password != passwordConfirm {
		errs = append(errs, "Passwords do not match.")
	}

	return errs
}

// validatePassword applies the password policy: minimum length, not
// entirely numeric, and not on the common-password list.
func validatePassword(password string) []string {
	var errs []string

	if utf8.RuneCountInString(password) < minPasswordLen {
		errs = append(errs, "Password must be at least 8 characters long.")
	}
	if password != "" && allDigits(password) {
		errs = append(errs, "Password cannot be entirely numeric.")
	}
	if commonPasswords[strings.ToLower(password)] {
		errs = append(errs, "Password is too common.")
	}

	return errs
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// validateQuestion checks the ask-question form fields.
func validateQuestion(title, content string) []string {
	var errs []string

	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) < minTitleLen {
		errs = append(errs, "Question title must be at least 10 characters long.")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		errs = append(errs, "Question title is too long (max 200 characters).")
	}

	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) < minQuestionLen {
		errs = append(errs, "Question content must be at least 20 characters long.")
	}
	if utf8.RuneCountInString(content) > maxBodyLen {
		errs = append(errs, "Question content is too long.")
	}

	return errs
}

// validateAnswer checks the answer form field.
func validateAnswer(content string) []string {
	var errs []string

	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) < minAnswerLen {
		errs = append(errs, "Answer must be at least 10 characters long.")
	}
	if utf8.RuneCountInString(content) > maxBodyLen {
		errs = append(errs, "Answer is too long.")
	}

	return errs
}
