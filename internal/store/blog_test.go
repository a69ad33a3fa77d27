package store

import (
	"testing"

	"github.com/google/uuid"

	"onlystudies/internal/models"
)

func TestBlogListPublishedExcludesDrafts(t *testing.T) {
	db := testDB(t)
	s := NewBlogStore(db)
	author := testUser(t, db)

	pubSlug := "test-pub-" + uuid.NewString()[:8]
	draftSlug := "test-draft-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, pubSlug, draftSlug) })

	if _, err := s.Create(&models.BlogPost{
		Title: "Published post", Content: "visible body", Slug: pubSlug,
		AuthorID: author.ID, IsPublished: true,
	}); err != nil {
		t.Fatalf("Create published: %v", err)
	}
	if _, err := s.Create(&models.BlogPost{
		Title: "Draft post", Content: "hidden body", Slug: draftSlug,
		AuthorID: author.ID, IsPublished: false,
	}); err != nil {
		t.Fatalf("Create draft: %v", err)
	}

	posts, err := s.ListPublished(100, 0)
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	for _, p := range posts {
		if p.Slug == draftSlug {
			t.Error("draft appeared in published listing")
		}
		if !p.IsPublished {
			t.Errorf("unpublished post %q in listing", p.Slug)
		}
	}

	// Slug lookup refuses the draft too.
	found, err := s.FindPublishedBySlug(draftSlug)
	if err != nil {
		t.Fatalf("FindPublishedBySlug: %v", err)
	}
	if found != nil {
		t.Error("draft reachable by slug lookup")
	}
}

func TestBlogRelatedSharesCategory(t *testing.T) {
	db := testDB(t)
	s := NewBlogStore(db)
	author := testUser(t, db)
	cat := testCategory(t, db)

	suffix := uuid.NewString()[:8]
	var slugs []string
	var posts []*models.BlogPost
	for i := 0; i < 3; i++ {
		sl := "test-rel-" + suffix + "-" + string(rune('a'+i))
		slugs = append(slugs, sl)
		p, err := s.Create(&models.BlogPost{
			Title: "Related candidate", Content: "body", Slug: sl,
			AuthorID: author.ID, CategoryID: &cat.ID, IsPublished: true,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		posts = append(posts, p)
	}
	t.Cleanup(func() { cleanPosts(t, db, slugs...) })

	related, err := s.Related(posts[0], 4)
	if err != nil {
		t.Fatalf("Related: %v", err)
	}
	if len(related) != 2 {
		t.Fatalf("related: got %d, want 2", len(related))
	}
	for _, r := range related {
		if r.ID == posts[0].ID {
			t.Error("related set contains the post itself")
		}
	}
}

func TestBlogRelatedEmptyWithoutCategory(t *testing.T) {
	db := testDB(t)
	s := NewBlogStore(db)
	author := testUser(t, db)

	sl := "test-nocat-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, sl) })

	p, err := s.Create(&models.BlogPost{
		Title: "Uncategorized post", Content: "body", Slug: sl,
		AuthorID: author.ID, IsPublished: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// No category means no related posts — never "all posts".
	related, err := s.Related(p, 4)
	if err != nil {
		t.Fatalf("Related: %v", err)
	}
	if len(related) != 0 {
		t.Errorf("related for uncategorized post: got %d, want 0", len(related))
	}
}

func TestBlogCategoryDeleteClearsReference(t *testing.T) {
	db := testDB(t)
	s := NewBlogStore(db)
	cats := NewCategoryStore(db)
	author := testUser(t, db)
	cat := testCategory(t, db)

	sl := "test-setnull-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, sl) })

	p, err := s.Create(&models.BlogPost{
		Title: "Post that outlives its category", Content: "body", Slug: sl,
		AuthorID: author.ID, CategoryID: &cat.ID, IsPublished: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := cats.Delete(cat.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	reloaded, err := s.FindPublishedBySlug(p.Slug)
	if err != nil {
		t.Fatalf("FindPublishedBySlug: %v", err)
	}
	if reloaded == nil {
		t.Fatal("post deleted along with its category")
	}
	if reloaded.CategoryID != nil {
		t.Error("category reference should be cleared, not kept")
	}
}

func TestBlogSlugCollisionFailsWrite(t *testing.T) {
	db := testDB(t)
	s := NewBlogStore(db)
	author := testUser(t, db)

	sl := "test-collide-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, sl) })

	if _, err := s.Create(&models.BlogPost{
		Title: "First", Content: "body", Slug: sl, AuthorID: author.ID, IsPublished: true,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Blog slugs are caller-supplied; a collision fails the write instead
	// of being auto-corrected.
	if _, err := s.Create(&models.BlogPost{
		Title: "Second", Content: "body", Slug: sl, AuthorID: author.ID, IsPublished: true,
	}); err == nil {
		t.Error("expected unique violation for duplicate blog slug")
	}
}

func TestBlogSearchPublishedOnly(t *testing.T) {
	db := testDB(t)
	s := NewBlogStore(db)
	author := testUser(t, db)

	marker := "qzxblogmarker"
	pubSlug := "test-s-pub-" + uuid.NewString()[:8]
	draftSlug := "test-s-draft-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, pubSlug, draftSlug) })

	if _, err := s.Create(&models.BlogPost{
		Title: "Visible " + marker, Content: "body", Slug: pubSlug,
		AuthorID: author.ID, IsPublished: true,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.Create(&models.BlogPost{
		Title: "Hidden " + marker, Content: "body", Slug: draftSlug,
		AuthorID: author.ID, IsPublished: false,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	results, err := s.Search(marker)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, r := range results {
		if r.Slug == draftSlug {
			t.Error("draft appeared in search results")
		}
	}
}
