package postlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dailypeanut/daily-peanut/peanuts"
)

var header = []string{"date", "post_url"}

// PostURL returns the public URL of a post.
func PostURL(blogID, postID string) string {
	return fmt.Sprintf("https://%s.tumblr.com/post/%s", blogID, postID)
}

// Record is a row of the post log.
type Record struct {
	Date    time.Time
	PostURL string
}

// Log is an append-only CSV file of published posts.
type Log struct {
	Path   string
	BlogID string
}

// Record appends a row for the given post and returns its URL. The file
// is created with a header row if it does not exist yet. Rows are never
// deduplicated.
func (l *Log) Record(date time.Time, postID string) (string, error) {
	postURL := PostURL(l.BlogID, postID)

	_, err := os.Stat(l.Path)
	create := os.IsNotExist(err)
	if err != nil && !create {
		return "", err
	}

	f, err := os.OpenFile(l.Path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if create {
		if err := w.Write(header); err != nil {
			return "", err
		}
	}
	if err := w.Write([]string{date.Format(peanuts.DateLayout), postURL}); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return postURL, f.Close()
}

// ReadLog reads all rows of the post log at path.
func ReadLog(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)

	var records []Record
	for line := 1; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && row[0] == header[0] {
			continue
		}
		date, err := time.Parse(peanuts.DateLayout, row[0])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		records = append(records, Record{Date: date, PostURL: row[1]})
	}
	return records, nil
}
