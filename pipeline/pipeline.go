package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/dailypeanut/daily-peanut/archive"
	"github.com/dailypeanut/daily-peanut/heartbeat"
	"github.com/dailypeanut/daily-peanut/peanuts"
	"github.com/dailypeanut/daily-peanut/postlog"
	"github.com/dailypeanut/daily-peanut/publish"
	"github.com/dailypeanut/daily-peanut/tumblr"
)

// ComicSource looks up strips and downloads their images.
type ComicSource interface {
	peanuts.Source
	FetchImage(ctx context.Context, comic *peanuts.Comic) ([]byte, error)
}

// Poster publishes a strip image.
type Poster interface {
	Publish(ctx context.Context, image []byte, date time.Time) (*tumblr.PostResult, error)
}

// Recorder stores a published post somewhere besides the CSV log.
type Recorder interface {
	Record(ctx context.Context, comic *peanuts.Comic, postID string) error
}

// Archiver keeps a copy of published strips.
type Archiver interface {
	Upload(ctx context.Context, date time.Time, image []byte) (string, error)
}

// Result describes a completed run.
type Result struct {
	Comic      *peanuts.Comic     `json:"comic"`
	Date       time.Time          `json:"date"`
	Post       *tumblr.PostResult `json:"post"`
	PostURL    string             `json:"post_url"`
	ArchiveURL string             `json:"archive_url,omitempty"`
}

// Runner fetches the current strip and posts it. Nil Log, Dynamo and
// Archive as well as empty ImagePath and HeartbeatURL disable that step.
type Runner struct {
	Credentials  tumblr.Credentials
	BlogID       string
	Source       ComicSource
	Publisher    Poster
	Log          *postlog.Log
	Dynamo       Recorder
	Archive      Archiver
	ImagePath    string
	HeartbeatURL string
}

// New wires a Runner against GoComics, Tumblr and, if configured, AWS.
func New(ctx context.Context, cfg *Config) (*Runner, error) {
	if err := cfg.Credentials.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		Credentials: cfg.Credentials,
		BlogID:      cfg.BlogID,
		Source:      peanuts.Site{},
		Publisher: &publish.Publisher{
			Client: tumblr.NewClient(ctx, cfg.Credentials),
			BlogID: cfg.BlogID,
		},
		ImagePath:    cfg.ImagePath,
		HeartbeatURL: cfg.HeartbeatEndpoint,
	}

	if cfg.LogPath != "" {
		r.Log = &postlog.Log{Path: cfg.LogPath, BlogID: cfg.BlogID}
	}

	if cfg.DynamoTable != "" || cfg.ArchiveBucket != "" {
		sess, err := session.NewSession()
		if err != nil {
			return nil, err
		}
		if cfg.DynamoTable != "" {
			r.Dynamo = &postlog.DynamoRecorder{
				Table:  cfg.DynamoTable,
				BlogID: cfg.BlogID,
				DB:     dynamodb.New(sess),
			}
		}
		if cfg.ArchiveBucket != "" {
			r.Archive = &archive.Archiver{
				Bucket:   cfg.ArchiveBucket,
				Prefix:   cfg.ArchivePrefix,
				Uploader: s3manager.NewUploader(sess),
			}
		}
	}

	return r, nil
}

// Run posts the strip for today, or for the day before if today's strip is
// not out yet. Nothing is rolled back if a step after publishing fails.
func (r *Runner) Run(ctx context.Context, today time.Time) (*Result, error) {
	if err := r.Credentials.Validate(); err != nil {
		return nil, err
	}

	log.Printf("[INFO] Fetching Peanuts comic for %s ...", today.Format(peanuts.DateLayout))
	comic, date, err := peanuts.Resolve(ctx, r.Source, today)
	if err != nil {
		return nil, err
	}
	if !sameDay(date, today) {
		log.Printf("[INFO] Comic for %s not available yet, using %s", today.Format(peanuts.DateLayout), comic.Date)
	}
	log.Printf("[DEBUG] comic = %+v", comic)

	image, err := r.Source.FetchImage(ctx, comic)
	if err != nil {
		return nil, fmt.Errorf("downloading strip %s: %w", comic.ImageURL, err)
	}
	if r.ImagePath != "" {
		log.Printf("[INFO] Saving strip to %s ...", r.ImagePath)
		if err := os.WriteFile(r.ImagePath, image, 0644); err != nil {
			return nil, err
		}
	}

	log.Printf("[INFO] Posting %q to %s ...", peanuts.Caption(date), r.BlogID)
	post, err := r.Publisher.Publish(ctx, image, date)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Comic:   comic,
		Date:    date,
		Post:    post,
		PostURL: postlog.PostURL(r.BlogID, post.PostID),
	}

	if r.Log != nil {
		log.Printf("[INFO] Appending post %s to %s ...", post.PostID, r.Log.Path)
		if res.PostURL, err = r.Log.Record(date, post.PostID); err != nil {
			return nil, fmt.Errorf("post %s published but not logged: %w", post.PostID, err)
		}
	}

	if r.Dynamo != nil {
		log.Printf("[INFO] Writing post %s to DynamoDB ...", post.PostID)
		if err := r.Dynamo.Record(ctx, comic, post.PostID); err != nil {
			return nil, fmt.Errorf("post %s published but not recorded: %w", post.PostID, err)
		}
	}

	if r.Archive != nil {
		log.Printf("[INFO] Archiving strip %s ...", comic.Date)
		if res.ArchiveURL, err = r.Archive.Upload(ctx, date, image); err != nil {
			return nil, fmt.Errorf("post %s published but not archived: %w", post.PostID, err)
		}
	}

	if r.HeartbeatURL != "" {
		status, err := heartbeat.Ping(ctx, r.HeartbeatURL)
		if err != nil {
			return nil, fmt.Errorf("post %s published but heartbeat failed: %w", post.PostID, err)
		}
		log.Printf("[DEBUG] heartbeat = %s", status)
	}

	return res, nil
}

func sameDay(a, b time.Time) bool {
	return a.Format(peanuts.DateLayout) == b.Format(peanuts.DateLayout)
}
