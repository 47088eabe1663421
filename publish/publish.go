package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/dailypeanut/daily-peanut/peanuts"
	"github.com/dailypeanut/daily-peanut/tumblr"
)

// DefaultTags are attached to every post.
var DefaultTags = []string{"peanuts", "comic", "charles schulz", "snoopy", "charlie brown"}

// PhotoCreator creates photo posts. It is implemented by *tumblr.Client.
type PhotoCreator interface {
	CreatePhoto(ctx context.Context, blogID string, post tumblr.PhotoPost) (*tumblr.PostResult, error)
}

// Publisher posts strips to a blog.
type Publisher struct {
	Client PhotoCreator
	BlogID string
	Tags   []string
}

// Publish posts the strip image for the given date.
func (p *Publisher) Publish(ctx context.Context, image []byte, date time.Time) (*tumblr.PostResult, error) {
	tags := p.Tags
	if tags == nil {
		tags = DefaultTags
	}

	res, err := p.Client.CreatePhoto(ctx, p.BlogID, tumblr.PhotoPost{
		State:    "published",
		Tags:     tags,
		Caption:  peanuts.Caption(date),
		Data:     image,
		Filename: fmt.Sprintf("peanuts-%s.png", date.Format(peanuts.DateLayout)),
	})
	if err != nil {
		return nil, fmt.Errorf("publishing to %s: %w", p.BlogID, err)
	}
	return res, nil
}
