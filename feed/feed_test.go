package feed_test

import (
	"bytes"
	"encoding/xml"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dailypeanut/daily-peanut/feed"
	"github.com/dailypeanut/daily-peanut/postlog"
)

type rss struct {
	Channel struct {
		Title string `xml:"title"`
		Link  string `xml:"link"`
		Items []struct {
			Title string `xml:"title"`
			Link  string `xml:"link"`
			GUID  string `xml:"guid"`
		} `xml:"item"`
	} `xml:"channel"`
}

func TestGenerate(t *testing.T) {
	var records []postlog.Record
	for i, id := range []string{"1", "2", "3", "4"} {
		records = append(records, postlog.Record{
			Date:    time.Date(2024, time.March, 1+i, 0, 0, 0, 0, time.UTC),
			PostURL: "https://daily-peanut.tumblr.com/post/" + id,
		})
	}

	var buf bytes.Buffer
	if err := feed.Generate(&buf, "daily-peanut", records, 3); err != nil {
		t.Fatal(err)
	}

	var got rss
	if err := xml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff("Daily Peanut", got.Channel.Title); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff("https://daily-peanut.tumblr.com", got.Channel.Link); diff != "" {
		t.Error(diff)
	}

	var titles, links []string
	for _, item := range got.Channel.Items {
		titles = append(titles, item.Title)
		links = append(links, item.Link)
	}
	if diff := cmp.Diff([]string{
		"Peanuts - March 04, 2024",
		"Peanuts - March 03, 2024",
		"Peanuts - March 02, 2024",
	}, titles); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff([]string{
		"https://daily-peanut.tumblr.com/post/4",
		"https://daily-peanut.tumblr.com/post/3",
		"https://daily-peanut.tumblr.com/post/2",
	}, links); diff != "" {
		t.Error(diff)
	}
}
