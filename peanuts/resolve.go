package peanuts

import (
	"context"
	"fmt"
	"time"
)

// Source looks up strips by date.
type Source interface {
	Lookup(ctx context.Context, date time.Time) (*Comic, bool, error)
}

// Site is the GoComics website.
type Site struct{}

func (Site) Lookup(ctx context.Context, date time.Time) (*Comic, bool, error) {
	return Lookup(ctx, date)
}

func (Site) FetchImage(ctx context.Context, comic *Comic) ([]byte, error) {
	return FetchImage(ctx, comic)
}

// Resolve finds the strip for today, falling back to the day before if
// today's strip is not published yet. It returns the comic together with
// the date it was found for.
func Resolve(ctx context.Context, src Source, today time.Time) (*Comic, time.Time, error) {
	comic, ok, err := src.Lookup(ctx, today)
	if err != nil {
		return nil, time.Time{}, err
	}
	if ok {
		return comic, today, nil
	}

	yesterday := today.AddDate(0, 0, -1)
	comic, ok, err = src.Lookup(ctx, yesterday)
	if err != nil {
		return nil, time.Time{}, err
	}
	if !ok {
		return nil, time.Time{}, fmt.Errorf("%w for %s or %s", ErrNotAvailable,
			today.Format(DateLayout), yesterday.Format(DateLayout))
	}
	return comic, yesterday, nil
}
