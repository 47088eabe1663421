package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/dailypeanut/daily-peanut/peanuts"
	"github.com/dailypeanut/daily-peanut/pipeline"
)

// Input is the input passed to the Lambda function.
type Input struct {
	Date string `json:"date"`
}

// Output is the output returned by the Lambda function.
type Output struct {
	*peanuts.Comic
	PostID     string `json:"post_id"`
	PostURL    string `json:"post_url"`
	ArchiveURL string `json:"archive_url,omitempty"`
}

func main() {
	lambda.Start(handler)
}

func handler(ctx context.Context, input Input) (*Output, error) {
	cfg, err := pipeline.LoadConfig()
	if err != nil {
		return nil, err
	}
	lambdaPaths(cfg)
	log.Printf("[DEBUG] blog = %s, log = %q, table = %q, bucket = %q", cfg.BlogID, cfg.LogPath, cfg.DynamoTable, cfg.ArchiveBucket)

	today, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}

	r, err := pipeline.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	res, err := r.Run(ctx, today)
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] Posted %s: %s", res.Comic.Date, res.PostURL)
	return &Output{res.Comic, res.Post.PostID, res.PostURL, res.ArchiveURL}, nil
}

// lambdaPaths keeps file writes off the read-only task directory. With a
// DynamoDB table configured the CSV log is dropped, since /tmp does not
// outlive the execution environment.
func lambdaPaths(cfg *pipeline.Config) {
	if cfg.DynamoTable != "" {
		cfg.LogPath = ""
	}
	if cfg.LogPath != "" && !filepath.IsAbs(cfg.LogPath) {
		cfg.LogPath = filepath.Join(os.TempDir(), cfg.LogPath)
	}
	if cfg.ImagePath != "" && !filepath.IsAbs(cfg.ImagePath) {
		cfg.ImagePath = filepath.Join(os.TempDir(), cfg.ImagePath)
	}
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}

	date := strings.TrimSpace(s)
	if len(date) != 10 {
		return time.Time{}, fmt.Errorf("input date %q has invalid length", date)
	}
	if len(strings.Split(date, "-")) != 3 {
		return time.Time{}, fmt.Errorf("input date %q has invalid format", date)
	}
	return time.ParseInLocation(peanuts.DateLayout, date, time.Local)
}
