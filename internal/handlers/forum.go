// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"onlystudies/internal/markdown"
	"onlystudies/internal/middleware"
	"onlystudies/internal/models"
	"onlystudies/internal/render"
	"onlystudies/internal/store"
)

// forumPageSize is how many questions a forum page shows.
const forumPageSize = 15

// Forum groups the Q&A forum handlers: question listing, asking,
// viewing, and answering.
type Forum struct {
	renderer          *render.Renderer
	forumStore        *store.ForumStore
	categoryStore     *store.CategoryStore
	notificationStore *store.NotificationStore
}

// NewForum creates a new Forum handler group.
func NewForum(renderer *render.Renderer, forumStore *store.ForumStore, categoryStore *store.CategoryStore, notificationStore *store.NotificationStore) *Forum {
	return &Forum{
		renderer:          renderer,
		forumStore:        forumStore,
		categoryStore:     categoryStore,
		notificationStore: notificationStore,
	}
}

// answerView pairs an answer with its rendered Markdown body for the
// question detail template.
type answerView struct {
	Answer      models.ForumAnswer
	ContentHTML template.HTML
}

// List renders a page of questions, newest first.
func (f *Forum) List(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	total, err := f.forumStore.CountQuestions()
	if err != nil {
		slog.Error("count questions failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	totalPages := pageCount(total, forumPageSize)
	if page > totalPages && totalPages > 0 {
		page = totalPages
	}

	questions, err := f.forumStore.ListQuestions(forumPageSize, (page-1)*forumPageSize)
	if err != nil {
		slog.Error("list questions failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	f.renderer.Page(w, r, "forum", pageData(r, "Student Forum", "forum", map[string]any{
		"Questions":  questions,
		"Page":       page,
		"TotalPages": totalPages,
	}))
}

// AskPage renders the ask-question form. Requires authentication
// (enforced by RequireAuth in the router).
func (f *Forum) AskPage(w http.ResponseWriter, r *http.Request) {
	f.renderer.Page(w, r, "ask_question", pageData(r, "Ask a Question", "forum", map[string]any{
		"Category":   "",
		"Categories": f.askCategories(),
	}))
}

// askCategories loads the category choices for the ask form. A load
// failure degrades to an empty select rather than blocking the form.
func (f *Forum) askCategories() []models.Category {
	categories, err := f.categoryStore.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		return nil
	}
	return categories
}

// AskSubmit validates and creates a question, then redirects to its
// detail page. The slug is derived from the title by the store. The
// category is optional; an unknown value is treated as none.
func (f *Forum) AskSubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	title := r.FormValue("title")
	content := r.FormValue("content")
	categoryID := parseCategoryID(r.FormValue("category"))

	if errs := validateQuestion(title, content); len(errs) > 0 {
		f.renderer.Page(w, r, "ask_question", pageData(r, "Ask a Question", "forum", map[string]any{
			"Errors":     errs,
			"Title":      title,
			"Content":    content,
			"Category":   r.FormValue("category"),
			"Categories": f.askCategories(),
		}))
		return
	}

	question, err := f.forumStore.CreateQuestion(&models.ForumQuestion{
		Title:      title,
		Content:    content,
		AuthorID:   sess.UserID,
		CategoryID: categoryID,
	})
	if err != nil {
		slog.Error("create question failed", "error", err)
		f.renderer.Page(w, r, "ask_question", pageData(r, "Ask a Question", "forum", map[string]any{
			"Errors":     []string{"An unexpected error occurred. Please try again."},
			"Title":      title,
			"Content":    content,
			"Category":   r.FormValue("category"),
			"Categories": f.askCategories(),
		}))
		return
	}

	render.SetFlash(w, render.FlashSuccess, "Your question has been posted successfully!")
	http.Redirect(w, r, "/forum/"+question.Slug, http.StatusSeeOther)
}

// Detail renders a question with its answers and increments the view
// counter. Every page load counts as a view, the original behavior.
func (f *Forum) Detail(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	question, err := f.forumStore.FindQuestionBySlug(slugParam)
	if err != nil {
		slog.Error("find question failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if question == nil {
		http.NotFound(w, r)
		return
	}

	if err := f.forumStore.IncrementViews(question.ID); err != nil {
		slog.Warn("increment views failed", "error", err, "slug", slugParam)
	} else {
		question.Views++
	}

	answers, err := f.forumStore.ListAnswers(question.ID)
	if err != nil {
		slog.Error("list answers failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	contentHTML, err := markdown.ToHTML(question.Content)
	if err != nil {
		slog.Error("render question markdown failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	views := make([]answerView, 0, len(answers))
	for _, answer := range answers {
		body, err := markdown.ToHTML(answer.Content)
		if err != nil {
			slog.Warn("render answer markdown failed", "error", err, "answer", answer.ID)
			continue
		}
		views = append(views, answerView{Answer: answer, ContentHTML: template.HTML(body)})
	}

	f.renderer.Page(w, r, "forum_question", pageData(r, question.Title, "forum", map[string]any{
		"Question":    question,
		"ContentHTML": template.HTML(contentHTML),
		"Answers":     views,
	}))
}

// PostAnswer validates and stores an answer, marks the question answered
// on its first answer, and notifies the question author.
func (f *Forum) PostAnswer(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		render.SetFlash(w, render.FlashError, "You must be logged in to post an answer.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	slugParam := chi.URLParam(r, "slug")

	question, err := f.forumStore.FindQuestionBySlug(slugParam)
	if err != nil {
		slog.Error("find question failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if question == nil {
		http.NotFound(w, r)
		return
	}

	content := r.FormValue("content")
	if errs := validateAnswer(content); len(errs) > 0 {
		render.SetFlash(w, render.FlashError, errs[0])
		http.Redirect(w, r, "/forum/"+slugParam, http.StatusSeeOther)
		return
	}

	_, err = f.forumStore.CreateAnswer(&models.ForumAnswer{
		QuestionID: question.ID,
		AuthorID:   sess.UserID,
		Content:    content,
	})
	if err != nil {
		slog.Error("create answer failed", "error", err)
		render.SetFlash(w, render.FlashError, "Could not post your answer. Please try again.")
		http.Redirect(w, r, "/forum/"+slugParam, http.StatusSeeOther)
		return
	}

	// The answered flag flips on the first answer and stays set.
	if !question.IsAnswered {
		if err := f.forumStore.MarkAnswered(question.ID); err != nil {
			slog.Warn("mark answered failed", "error", err, "slug", slugParam)
		}
	}

	f.notifyQuestionAuthor(question, sess.DisplayName, sess.UserID)

	render.SetFlash(w, render.FlashSuccess, "Your answer has been posted!")
	http.Redirect(w, r, "/forum/"+slugParam, http.StatusSeeOther)
}

// notifyQuestionAuthor creates a forum notification for the question's
// author. Answering your own question does not notify.
func (f *Forum) notifyQuestionAuthor(question *models.ForumQuestion, answererName string, answererID uuid.UUID) {
	if question.AuthorID == answererID {
		return
	}

	url := "/forum/" + question.Slug
	_, err := f.notificationStore.Create(&models.Notification{
		UserID:     question.AuthorID,
		Title:      "New answer to your question",
		Message:    answererName + " answered: " + question.Title,
		Type:       models.NotificationForum,
		RelatedURL: &url,
	})
	if err != nil {
		slog.Warn("create answer notification failed", "error", err, "question", question.ID)
	}
}

// parseCategoryID parses the optional category form value. Empty or
// malformed values mean no category.
func parseCategoryID(value string) *uuid.UUID {
	if value == "" {
		return nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil
	}
	return &id
}
