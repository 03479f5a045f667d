package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dghubble/oauth1"
	"go.opentelemetry.io/otel/trace"
)

const twitterBaseURL = "https://api.twitter.com/1.1"

// TwitterClient talks to the v1.1 statuses endpoints with OAuth1 user
// credentials.
type TwitterClient struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
}

func NewTwitterClient(tracer trace.Tracer, consumerKey, consumerSecret, accessToken, accessSecret string) *TwitterClient {
	cfg := oauth1.NewConfig(consumerKey, consumerSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	return &TwitterClient{
		client:  cfg.Client(oauth1.NoContext, token),
		baseURL: twitterBaseURL,
		tracer:  tracer,
	}
}

// PostStatus posts text, optionally as a reply, and returns the new status id.
func (c *TwitterClient) PostStatus(ctx context.Context, text, inReplyTo string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "twitter.post-status")
	defer span.End()

	form := url.Values{"status": {text}}
	if inReplyTo != "" {
		form.Set("in_reply_to_status_id", inReplyTo)
	}

	body, err := c.post(ctx, "/statuses/update.json", form)
	if err != nil {
		return "", fmt.Errorf("post status: %w", err)
	}

	var reply struct {
		IDStr string `json:"id_str"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", fmt.Errorf("parse status reply: %w", err)
	}
	if reply.IDStr == "" {
		return "", fmt.Errorf("status reply has no id")
	}
	return reply.IDStr, nil
}

func (c *TwitterClient) DeleteStatus(ctx context.Context, id string) error {
	ctx, span := c.tracer.Start(ctx, "twitter.delete-status")
	defer span.End()

	if _, err := c.post(ctx, "/statuses/destroy/"+url.PathEscape(id)+".json", url.Values{}); err != nil {
		return fmt.Errorf("delete status %s: %w", id, err)
	}
	return nil
}

func (c *TwitterClient) post(ctx context.Context, path string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twitter API error %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
