package peanuts_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dailypeanut/daily-peanut/peanuts"
)

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/peanuts/2030/01/01":
			http.Redirect(w, r, "/peanuts/2024/03/05", http.StatusFound)
			return
		case "/peanuts/2000/01/01":
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		case "/peanuts/2023/07/04":
			http.Redirect(w, r, "/peanuts/2023/07/04/", http.StatusMovedPermanently)
			return
		case "/peanuts/2023/07/05/":
			http.Redirect(w, r, "/peanuts/2023/07/05", http.StatusMovedPermanently)
			return
		case "/peanuts/2023/07/05":
			http.Redirect(w, r, "/peanuts/2023/07/05/", http.StatusMovedPermanently)
			return
		case "/strip":
			http.Redirect(w, r, "/image.png", http.StatusMovedPermanently)
			return
		case "/image.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("PNG"))
			return
		}
		path := strings.TrimSuffix(r.URL.Path, "/")
		b, err := os.ReadFile(filepath.Join("testdata", filepath.FromSlash(path)+".html"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Write(b)
	}))
	t.Cleanup(ts.Close)
	peanuts.SetBaseURL(ts.URL)
	return ts
}

func day(s string) time.Time {
	d, _ := time.Parse(peanuts.DateLayout, s)
	return d
}

func TestLookup(t *testing.T) {
	ts := newSite(t)

	testdata := []*peanuts.Comic{
		{
			Date:     "2024-03-05",
			Title:    "Peanuts by Charles Schulz for March 05, 2024 | GoComics.com",
			ImageURL: "https://assets.amuniversal.com/4c0a1e30b9e4013c9b4b005056a9545d",
			StripURL: ts.URL + "/peanuts/2024/03/05",
		},
		{
			Date:     "1999-12-31",
			Title:    "Peanuts - December 31, 1999",
			ImageURL: "https://assets.amuniversal.com/a1ed9750dfc6013d8e4b005056a9545d",
			StripURL: ts.URL + "/peanuts/1999/12/31",
		},
	}

	for _, td := range testdata {
		comic, ok, err := peanuts.Lookup(context.Background(), day(td.Date))
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatalf("%s: expected comic to be available", td.Date)
		}
		if diff := cmp.Diff(td, comic); diff != "" {
			t.Error(diff)
		}
	}
}

func TestLookupSamePageRedirect(t *testing.T) {
	ts := newSite(t)

	comic, ok, err := peanuts.Lookup(context.Background(), day("2023-07-04"))
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected comic to be available")
	}

	want := &peanuts.Comic{
		Date:     "2023-07-04",
		Title:    "Peanuts by Charles Schulz for July 04, 2023 | GoComics.com",
		ImageURL: "https://assets.amuniversal.com/8f3d7c20fb6a013b5a2e005056a9545d",
		StripURL: ts.URL + "/peanuts/2023/07/04",
	}
	if diff := cmp.Diff(want, comic); diff != "" {
		t.Error(diff)
	}
}

func TestLookupRedirectLoop(t *testing.T) {
	newSite(t)

	if _, ok, err := peanuts.Lookup(context.Background(), day("2023-07-05")); err == nil || ok {
		t.Errorf("expected redirect loop error, got ok=%v err=%v", ok, err)
	}
}

func TestLookupNotAvailable(t *testing.T) {
	newSite(t)

	for _, date := range []string{"2030-01-01", "2029-06-15", "1950-10-01"} {
		comic, ok, err := peanuts.Lookup(context.Background(), day(date))
		if err != nil {
			t.Errorf("%s: unexpected error: %s", date, err)
		}
		if ok || comic != nil {
			t.Errorf("%s: expected no comic, got %+v", date, comic)
		}
	}
}

func TestLookupErrors(t *testing.T) {
	newSite(t)

	for _, date := range []string{"2000-01-01", "2024-01-02"} {
		if _, _, err := peanuts.Lookup(context.Background(), day(date)); err == nil {
			t.Errorf("%s: expected error", date)
		}
	}
}

func TestFetchImage(t *testing.T) {
	ts := newSite(t)

	b, err := peanuts.FetchImage(context.Background(), &peanuts.Comic{ImageURL: ts.URL + "/image.png"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("PNG", string(b)); diff != "" {
		t.Error(diff)
	}

	b, err = peanuts.FetchImage(context.Background(), &peanuts.Comic{ImageURL: ts.URL + "/strip"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("PNG", string(b)); diff != "" {
		t.Error(diff)
	}

	if _, err := peanuts.FetchImage(context.Background(), &peanuts.Comic{ImageURL: ts.URL + "/missing.png"}); err == nil {
		t.Error("expected error for missing image")
	}
}

func TestCaption(t *testing.T) {
	for date, want := range map[string]string{
		"2024-03-05": "Peanuts - March 05, 2024",
		"1950-10-02": "Peanuts - October 02, 1950",
		"2024-12-25": "Peanuts - December 25, 2024",
	} {
		if diff := cmp.Diff(want, peanuts.Caption(day(date))); diff != "" {
			t.Error(diff)
		}
	}
}
