package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dailypeanut/daily-peanut/feed"
	"github.com/dailypeanut/daily-peanut/peanuts"
	"github.com/dailypeanut/daily-peanut/pipeline"
	"github.com/dailypeanut/daily-peanut/postlog"
)

var (
	dateFlag   string
	feedLog    string
	feedOut    string
	feedBlog   string
	feedLength int
)

var rootCmd = &cobra.Command{
	Use:   "daily-peanut",
	Short: "Post today's Peanuts strip to Tumblr",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		today := time.Now()
		if dateFlag != "" {
			d, err := time.ParseInLocation(peanuts.DateLayout, dateFlag, time.Local)
			if err != nil {
				log.Fatalf("Invalid date %q: %v", dateFlag, err)
			}
			today = d
		}

		cfg, err := pipeline.LoadConfig()
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("[DEBUG] blog = %s, log = %q, image = %q", cfg.BlogID, cfg.LogPath, cfg.ImagePath)

		ctx := context.Background()
		r, err := pipeline.New(ctx, cfg)
		if err != nil {
			log.Fatal(err)
		}

		res, err := r.Run(ctx, today)
		if err != nil {
			log.Fatal(err)
		}

		log.Printf("[INFO] Done! Posted %s: %s", res.Comic.Date, res.PostURL)
		log.Printf("[DEBUG] response = %v", res.Post.Raw)
	},
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Generate an RSS feed from the post log",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := writeFeed(feedLog, feedOut, feedBlog, feedLength); err != nil {
			log.Fatal(err)
		}
	},
}

func writeFeed(logPath, outPath, blogID string, length int) error {
	records, err := postlog.ReadLog(logPath)
	if err != nil {
		return err
	}

	log.Printf("[INFO] Generating feed from %d posts in %s ...", len(records), logPath)

	if outPath == "" || outPath == "-" {
		return feed.Generate(os.Stdout, blogID, records, length)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := feed.Generate(f, blogID, records, length); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func init() {
	rootCmd.Flags().StringVar(&dateFlag, "date", "", "Post the strip for this date (YYYY-MM-DD) instead of today")

	feedCmd.Flags().StringVar(&feedLog, "log", "posted.csv", "Post log to read")
	feedCmd.Flags().StringVar(&feedOut, "out", "-", "File to write the feed to")
	feedCmd.Flags().StringVar(&feedBlog, "blog", "daily-peanut", "Blog identifier")
	feedCmd.Flags().IntVar(&feedLength, "length", 30, "Number of posts in the feed")
	rootCmd.AddCommand(feedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
