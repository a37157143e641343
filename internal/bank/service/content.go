package service

import (
	"context"

	"github.com/louisbranch/demobank/internal/bank/domain"
	"github.com/louisbranch/demobank/internal/platform/filter"
	"go.opentelemetry.io/otel/attribute"
)

// PostFilterFields are the fields a post filter may reference.
var PostFilterFields = []string{"category", "author", "title"}

// ContentRepository owns the article collection.
type ContentRepository struct {
	base
	posts PostStore
}

// NewContentRepository builds a content repository over posts.
func NewContentRepository(posts PostStore, opts ...Option) *ContentRepository {
	return &ContentRepository{base: newBase(opts), posts: posts}
}

// List returns every article, newest first.
func (r *ContentRepository) List(ctx context.Context) (posts []domain.BlogPost, err error) {
	ctx, finish := r.observe(ctx, "posts.list")
	defer func() { finish(err) }()

	return r.posts.Posts(ctx)
}

// Search returns articles matching an AIP-160 filter over PostFilterFields.
func (r *ContentRepository) Search(ctx context.Context, expression string) (posts []domain.BlogPost, err error) {
	ctx, finish := r.observe(ctx, "posts.search")
	defer func() { finish(err) }()

	matcher, err := compileFilter(expression, PostFilterFields...)
	if err != nil {
		return nil, err
	}
	all, err := r.posts.Posts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.BlogPost, 0, len(all))
	for _, post := range all {
		if matcher.Match(filter.Record{
			"category": post.Category,
			"author":   post.Author,
			"title":    post.Title,
		}) {
			out = append(out, post)
		}
	}
	return out, nil
}

// Get returns one article by id.
func (r *ContentRepository) Get(ctx context.Context, postID string) (post domain.BlogPost, err error) {
	ctx, finish := r.observe(ctx, "posts.get", attribute.String("demobank.post_id", postID))
	defer func() { finish(err) }()

	all, err := r.posts.Posts(ctx)
	if err != nil {
		return domain.BlogPost{}, err
	}
	return domain.FindPost(all, postID)
}

// Publish prepends a new article.
func (r *ContentRepository) Publish(ctx context.Context, input domain.PostInput) (post domain.BlogPost, err error) {
	ctx, finish := r.observe(ctx, "posts.publish", attribute.String("demobank.category", input.Category))
	defer func() { finish(err) }()

	_, err = r.posts.MutatePosts(ctx, func(posts []domain.BlogPost) ([]domain.BlogPost, error) {
		next, created, err := domain.PublishPost(posts, input, r.now, r.idGenerator)
		if err != nil {
			return nil, err
		}
		post = created
		return next, nil
	})
	if err != nil {
		return domain.BlogPost{}, err
	}

	r.logger.Info().Str("event", "post_published").Str("post_id", post.ID).Msg("post published")
	return post, nil
}
