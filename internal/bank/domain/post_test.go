package domain

import (
	"testing"

	apperrors "github.com/louisbranch/demobank/internal/platform/errors"
)

func TestPublishPostPrepends(t *testing.T) {
	posts := []BlogPost{{ID: "p1", Title: "One"}, {ID: "p2", Title: "Two"}}

	next, post, err := PublishPost(posts, PostInput{
		Title:    "  Saving in naira  ",
		Excerpt:  "Tips",
		Content:  "<p>Body</p>",
		Category: "Savings",
		Image:    "/img/savings.jpg",
	}, fixedNow, fixedID("p3"))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if post.Title != "Saving in naira" || post.Author != EditorialAuthor || !post.Date.Equal(testNow) {
		t.Fatalf("unexpected post %+v", post)
	}
	if len(next) != 3 || next[0].ID != "p3" || next[1].ID != "p1" || next[2].ID != "p2" {
		t.Fatalf("expected new post first then originals in order, got %+v", next)
	}
}

func TestPublishPostRequiresTitle(t *testing.T) {
	_, _, err := PublishPost(nil, PostInput{Title: "  "}, fixedNow, fixedID("x"))
	assertCode(t, err, apperrors.CodeInvalidArgument)
}

func TestFindPost(t *testing.T) {
	posts := []BlogPost{{ID: "p1", Title: "One"}}
	post, err := FindPost(posts, "p1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if post.Title != "One" {
		t.Fatalf("expected One, got %q", post.Title)
	}
	_, err = FindPost(posts, "p9")
	assertCode(t, err, apperrors.CodeNotFound)
}
