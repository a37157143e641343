package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/demobank/internal/platform/id"
)

// EditorialAuthor is the byline on every published post.
const EditorialAuthor = "Demo Bank Editorial"

// BlogPost is one article in the content repository.
type BlogPost struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Excerpt  string    `json:"excerpt"`
	Content  string    `json:"content"`
	Date     time.Time `json:"date"`
	Category string    `json:"category"`
	Image    string    `json:"image"`
	Author   string    `json:"author"`
}

// PostInput describes a new article.
type PostInput struct {
	Title    string
	Excerpt  string
	Content  string
	Category string
	Image    string
}

// PublishPost prepends a new article to posts.
func PublishPost(posts []BlogPost, input PostInput, now func() time.Time, idGenerator func() (string, error)) ([]BlogPost, BlogPost, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, BlogPost{}, invalidArgument("title", "is required")
	}

	postID, err := idGenerator()
	if err != nil {
		return nil, BlogPost{}, fmt.Errorf("generate post id: %w", err)
	}

	post := BlogPost{
		ID:       postID,
		Title:    title,
		Excerpt:  strings.TrimSpace(input.Excerpt),
		Content:  input.Content,
		Date:     now().UTC(),
		Category: strings.TrimSpace(input.Category),
		Image:    strings.TrimSpace(input.Image),
		Author:   EditorialAuthor,
	}
	next := make([]BlogPost, 0, len(posts)+1)
	next = append(next, post)
	next = append(next, posts...)
	return next, post, nil
}

// FindPost returns the post with postID.
func FindPost(posts []BlogPost, postID string) (BlogPost, error) {
	postID = strings.TrimSpace(postID)
	for _, post := range posts {
		if post.ID == postID {
			return post, nil
		}
	}
	return BlogPost{}, notFound("post", postID)
}
