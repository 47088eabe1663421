package feed

import (
	"fmt"
	"io"
	"sort"

	"github.com/gorilla/feeds"

	"github.com/dailypeanut/daily-peanut/peanuts"
	"github.com/dailypeanut/daily-peanut/postlog"
)

// Generate writes an RSS feed of the most recent posts in records.
func Generate(w io.Writer, blogID string, records []postlog.Record, length int) error {
	sorted := make([]postlog.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if length > 0 && len(sorted) > length {
		sorted = sorted[:length]
	}

	feed := &feeds.Feed{
		Title:       "Daily Peanut",
		Link:        &feeds.Link{Href: fmt.Sprintf("https://%s.tumblr.com", blogID)},
		Description: "Peanuts Daily Strip",
	}
	if len(sorted) > 0 {
		feed.Updated = sorted[0].Date
	}

	for _, r := range sorted {
		feed.Add(&feeds.Item{
			Title:       peanuts.Caption(r.Date),
			Link:        &feeds.Link{Href: r.PostURL},
			Description: fmt.Sprintf(`<a href="%s">%s</a>`, r.PostURL, peanuts.Caption(r.Date)),
			Id:          r.PostURL,
			Created:     r.Date,
		})
	}

	return feed.WriteRss(w)
}
