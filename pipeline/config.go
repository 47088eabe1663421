package pipeline

import (
	"github.com/kelseyhightower/envconfig"

	"github.com/dailypeanut/daily-peanut/tumblr"
)

// Config is read from the environment once at startup.
type Config struct {
	tumblr.Credentials

	BlogID            string `envconfig:"BLOG_ID" default:"daily-peanut"`
	ImagePath         string `envconfig:"IMAGE_PATH" default:"/tmp/peanuts_today.png"`
	LogPath           string `envconfig:"LOG_PATH" default:"posted.csv"`
	DynamoTable       string `envconfig:"DYNAMODB_TABLE"`
	ArchiveBucket     string `envconfig:"ARCHIVE_BUCKET"`
	ArchivePrefix     string `envconfig:"ARCHIVE_PREFIX" default:"strips/"`
	HeartbeatEndpoint string `envconfig:"HEARTBEAT_ENDPOINT"`
}

// LoadConfig reads the configuration from the environment. It fails if any
// of the Tumblr credentials is missing.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Credentials.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
