package tumblr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dghubble/oauth1"
)

// Credentials are the OAuth1 keys of a registered Tumblr application and
// an access token authorized for the target blog.
type Credentials struct {
	ConsumerKey    string `envconfig:"TUMBLR_CONSUMER_KEY" required:"true"`
	ConsumerSecret string `envconfig:"TUMBLR_CONSUMER_SECRET" required:"true"`
	OAuthToken     string `envconfig:"TUMBLR_OAUTH_TOKEN" required:"true"`
	OAuthSecret    string `envconfig:"TUMBLR_OAUTH_SECRET" required:"true"`
}

// MissingCredentialError reports an empty credential.
type MissingCredentialError struct {
	Var string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing credential %s", e.Var)
}

// Validate checks that all four credentials are set.
func (c Credentials) Validate() error {
	for _, v := range []struct{ name, value string }{
		{"TUMBLR_CONSUMER_KEY", c.ConsumerKey},
		{"TUMBLR_CONSUMER_SECRET", c.ConsumerSecret},
		{"TUMBLR_OAUTH_TOKEN", c.OAuthToken},
		{"TUMBLR_OAUTH_SECRET", c.OAuthSecret},
	} {
		if strings.TrimSpace(v.value) == "" {
			return &MissingCredentialError{v.name}
		}
	}
	return nil
}

var baseURL = "https://api.tumblr.com"

// SetBaseURL overrides the base URL for testing.
func SetBaseURL(url string) {
	baseURL = url
}

// PhotoPost is a photo post to be created.
type PhotoPost struct {
	State    string
	Tags     []string
	Caption  string
	Data     []byte
	Filename string
}

// PostResult is the API response to a created post.
type PostResult struct {
	PostID string                 `json:"post_id"`
	Raw    map[string]interface{} `json:"raw"`
}

// Client talks to the Tumblr v2 API.
type Client struct {
	httpClient *http.Client
}

// NewClient returns a client that signs its requests with the given credentials.
func NewClient(ctx context.Context, creds Credentials) *Client {
	config := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.OAuthToken, creds.OAuthSecret)
	return &Client{httpClient: config.Client(ctx, token)}
}

// CreatePhoto creates a photo post on the given blog.
func (c *Client) CreatePhoto(ctx context.Context, blogID string, post PhotoPost) (*PostResult, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	for _, f := range []struct{ name, value string }{
		{"type", "photo"},
		{"state", post.State},
		{"tags", strings.Join(post.Tags, ",")},
		{"caption", post.Caption},
	} {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, err
		}
	}

	part, err := w.CreateFormFile("data[0]", post.Filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(post.Data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	postURL := fmt.Sprintf("%s/v2/blog/%s.tumblr.com/post", baseURL, blogID)
	req, err := http.NewRequestWithContext(ctx, "POST", postURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var raw map[string]interface{}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding response (HTTP %s): %w", resp.Status, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiError(resp.Status, raw)
	}

	id := postID(raw)
	if id == "" {
		return nil, fmt.Errorf("post id not found in response")
	}

	return &PostResult{PostID: id, Raw: raw}, nil
}

func postID(raw map[string]interface{}) string {
	r, ok := raw["response"].(map[string]interface{})
	if !ok {
		return ""
	}
	if v, ok := r["id_string"].(string); ok && v != "" {
		return v
	}
	switch v := r["id"].(type) {
	case json.Number:
		return v.String()
	case string:
		return v
	}
	return ""
}

func apiError(status string, raw map[string]interface{}) error {
	msg := status
	if meta, ok := raw["meta"].(map[string]interface{}); ok {
		if v, ok := meta["msg"].(string); ok && v != "" {
			msg = v
		}
	}

	var details []string
	if errs, ok := raw["errors"].([]interface{}); ok {
		for _, e := range errs {
			m, ok := e.(map[string]interface{})
			if !ok {
				continue
			}
			if v, ok := m["detail"].(string); ok {
				details = append(details, v)
			} else if v, ok := m["title"].(string); ok {
				details = append(details, v)
			}
		}
	}

	if len(details) > 0 {
		return fmt.Errorf("tumblr API error: %s (%s)", msg, strings.Join(details, "; "))
	}
	return fmt.Errorf("tumblr API error: %s", msg)
}
