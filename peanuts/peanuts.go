package peanuts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DateLayout is the format of Comic.Date.
const DateLayout = "2006-01-02"

// ErrNotAvailable is returned by Resolve when neither today's nor
// yesterday's strip has been published.
var ErrNotAvailable = errors.New("comic not available")

// FirstStrip is the publication date of the first Peanuts strip.
var FirstStrip = time.Date(1950, time.October, 2, 0, 0, 0, 0, time.UTC)

// Comic describes a Peanuts comic strip.
type Comic struct {
	Date     string `json:"date"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
	StripURL string `json:"strip_url"`
}

var baseURL = "https://www.gocomics.com"

// SetBaseURL overrides the base URL for testing.
func SetBaseURL(url string) {
	baseURL = url
}

var (
	pageClient = &http.Client{
		Timeout: 10 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	imageClient = &http.Client{Timeout: 10 * time.Second}
)

// Lookup gets the Peanuts comic strip for the given date. It returns ok ==
// false and a nil error if the strip for that date is not published (yet).
func Lookup(ctx context.Context, date time.Time) (comic *Comic, ok bool, err error) {
	day := date.Format(DateLayout)
	if day < FirstStrip.Format(DateLayout) {
		return nil, false, nil
	}

	stripURL := fmt.Sprintf("%s/peanuts/%d/%02d/%02d", baseURL, date.Year(), date.Month(), date.Day())

	resp, ok, err := getStrip(ctx, stripURL)
	if err != nil || !ok {
		return nil, false, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, false, err
	}

	var title, imageURL string

	if v, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		title = strings.TrimSpace(v)
	}
	if v, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok {
		imageURL = strings.TrimSpace(v)
	}
	if imageURL == "" {
		if v, ok := doc.Find("picture.item-comic-image img").First().Attr("src"); ok {
			imageURL = strings.TrimSpace(v)
		}
	}

	if imageURL == "" {
		return nil, false, fmt.Errorf("image URL not found")
	}
	if title == "" {
		title = Caption(date)
	}

	return &Comic{
		Date:     day,
		Title:    title,
		ImageURL: imageURL,
		StripURL: stripURL,
	}, true, nil
}

// FetchImage downloads the strip image of the given comic.
func FetchImage(ctx context.Context, comic *Comic) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", comic.ImageURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := imageClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// getStrip requests the strip page. GoComics redirects unpublished dates to
// the latest strip, so a redirect to another page means not available. A
// redirect to the same page (trailing slash, scheme change) is followed once.
func getStrip(ctx context.Context, stripURL string) (*http.Response, bool, error) {
	target := stripURL
	for hops := 0; ; hops++ {
		req, err := http.NewRequestWithContext(ctx, "GET", target, nil)
		if err != nil {
			return nil, false, err
		}

		resp, err := pageClient.Do(req)
		if err != nil {
			return nil, false, err
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return resp, true, nil
		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return nil, false, nil
		case resp.StatusCode >= 300 && resp.StatusCode < 400:
			loc, err := resp.Location()
			resp.Body.Close()
			if err != nil {
				return nil, false, err
			}
			if !samePage(stripURL, loc) {
				return nil, false, nil
			}
			if hops > 0 {
				return nil, false, fmt.Errorf("redirect loop at %s", loc)
			}
			target = loc.String()
		default:
			resp.Body.Close()
			return nil, false, fmt.Errorf("HTTP error: %s", resp.Status)
		}
	}
}

func samePage(stripURL string, loc *url.URL) bool {
	u, err := url.Parse(stripURL)
	if err != nil {
		return false
	}
	return strings.TrimSuffix(u.Path, "/") == strings.TrimSuffix(loc.Path, "/")
}

// Caption returns the post caption for the strip of the given date.
func Caption(date time.Time) string {
	return "Peanuts - " + date.Format("January 02, 2006")
}
