package service

import (
	"context"
	"testing"

	"github.com/louisbranch/demobank/internal/bank/domain"
	apperrors "github.com/louisbranch/demobank/internal/platform/errors"
)

func TestPublishInsertsAtHead(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	seeded, err := h.bank.Content.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(seeded) != 6 {
		t.Fatalf("expected 6 seed posts, got %d", len(seeded))
	}

	post, err := h.bank.Content.Publish(ctx, domain.PostInput{
		Title:    "Planning for school fees season",
		Excerpt:  "Start a target savings plan in March.",
		Content:  "<p>Set a target and automate it.</p>",
		Category: "Savings",
		Image:    "/images/blog/school-fees.jpg",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if post.Author != domain.EditorialAuthor || !post.Date.Equal(testNow) || post.ID == "" {
		t.Fatalf("unexpected post %+v", post)
	}

	after, err := h.bank.Content.List(ctx)
	if err != nil {
		t.Fatalf("list after: %v", err)
	}
	if len(after) != 7 || after[0].ID != post.ID {
		t.Fatalf("expected new post at index 0, got %d posts", len(after))
	}
	for i, original := range seeded {
		if after[i+1] != original {
			t.Fatalf("expected seed post %d unchanged, got %+v", i, after[i+1])
		}
	}
}

func TestPublishRequiresTitle(t *testing.T) {
	h := newHarness(t)
	_, err := h.bank.Content.Publish(context.Background(), domain.PostInput{Title: ""})
	assertCode(t, err, apperrors.CodeInvalidArgument)
}

func TestGetPost(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	post, err := h.bank.Content.Get(ctx, "post-seed-001")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if post.Title != "Welcome to Demo Bank" {
		t.Fatalf("expected welcome post, got %q", post.Title)
	}

	_, err = h.bank.Content.Get(ctx, "post-missing")
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestSearchPosts(t *testing.T) {
	h := newHarness(t)
	security, err := h.bank.Content.Search(context.Background(), `category = "Security"`)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(security) != 2 {
		t.Fatalf("expected 2 security posts, got %d", len(security))
	}
	if security[0].ID != "post-seed-005" || security[1].ID != "post-seed-002" {
		t.Fatalf("expected newest-first order, got %s, %s", security[0].ID, security[1].ID)
	}
}
