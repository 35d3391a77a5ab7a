package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ArticlePublisher/internal/config"
	"ArticlePublisher/internal/domain"
	"ArticlePublisher/internal/ports"
	"ArticlePublisher/internal/retry"
)

// Client publishes articles to a WordPress site via its REST v2 API.
// Transient delivery failures are retried with backoff; an immediate publish
// that exhausts its retries is downgraded once to draft before giving up.
type Client struct {
	apiURL     string
	username   string
	password   string
	httpClient *http.Client
	retryCfg   retry.Config
	logger     *slog.Logger
}

var _ ports.Publisher = (*Client)(nil)

// NewClient builds a gateway from configuration.
func NewClient(cfg config.WordPressConfig, logger *slog.Logger) (*Client, error) {
	if cfg.SiteURL == "" || cfg.Username == "" || cfg.AppPassword == "" {
		return nil, fmt.Errorf("wordpress site url, username, and app password are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	retryCfg := retry.DefaultConfig()
	if cfg.MaxAttempts > 0 {
		retryCfg.MaxAttempts = cfg.MaxAttempts
	}

	return &Client{
		apiURL:     strings.TrimRight(cfg.SiteURL, "/") + "/wp-json/wp/v2",
		username:   cfg.Username,
		password:   cfg.AppPassword,
		httpClient: &http.Client{Timeout: timeout},
		retryCfg:   retryCfg,
		logger:     logger,
	}, nil
}

// WithRetryConfig overrides retry behavior; tests inject a no-op sleep.
func (c *Client) WithRetryConfig(cfg retry.Config) *Client {
	c.retryCfg = cfg
	return c
}

type postResponse struct {
	ID     int64  `json:"id"`
	Link   string `json:"link"`
	Status string `json:"status"`
}

// Publish delivers the post, retrying transient failures. When the desired
// status is not draft and every retry fails, one draft fallback pass runs so
// the content survives as a recoverable draft.
func (c *Client) Publish(ctx context.Context, req domain.PublishRequest) (domain.PublishResult, error) {
	result, attempts, err := c.tryPublish(ctx, req)
	if err == nil {
		result.Attempts = attempts
		return result, nil
	}

	if req.Status == domain.StatusDraft {
		return domain.PublishResult{}, &domain.PublishError{Status: req.Status, Attempts: attempts, Err: err}
	}

	c.logger.Warn("publish failed, falling back to draft",
		"desired_status", string(req.Status),
		"error", err)

	fallbackReq := req
	fallbackReq.Status = domain.StatusDraft
	fallbackReq.ScheduleAt = time.Time{}

	result, fallbackAttempts, fallbackErr := c.tryPublish(ctx, fallbackReq)
	if fallbackErr != nil {
		return domain.PublishResult{}, &domain.PublishError{
			Status:   req.Status,
			Attempts: attempts + fallbackAttempts,
			Err:      fallbackErr,
		}
	}

	result.Attempts = attempts + fallbackAttempts
	result.FallbackUsed = true
	return result, nil
}

func (c *Client) tryPublish(ctx context.Context, req domain.PublishRequest) (domain.PublishResult, int, error) {
	payload := map[string]any{
		"title":   req.Title,
		"content": req.Body,
		"status":  string(req.Status),
	}
	if len(req.Categories) > 0 {
		payload["categories"] = req.Categories
	}
	if len(req.Tags) > 0 {
		payload["tags"] = req.Tags
	}
	if req.Status == domain.StatusScheduled && !req.ScheduleAt.IsZero() {
		payload["date"] = req.ScheduleAt.Format("2006-01-02T15:04:05")
	}

	var result domain.PublishResult

	attempts, err := retry.Do(ctx, c.retryCfg, func(ctx context.Context, attempt int) error {
		var resp postResponse
		if err := c.do(ctx, http.MethodPost, "/posts", payload, &resp); err != nil {
			c.logger.Warn("publish attempt failed",
				"attempt", attempt,
				"status", string(req.Status),
				"error", err)
			return err
		}

		result = domain.PublishResult{
			PostID:  resp.ID,
			PostURL: resp.Link,
			Status:  domain.PostStatus(resp.Status),
		}
		c.logger.Info("post delivered",
			"post_id", resp.ID,
			"status", resp.Status,
			"attempt", attempt)
		return nil
	})

	return result, attempts, err
}

type termResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EnsureCategory looks a category up by name and creates it when absent, so
// repeated runs never accumulate duplicate taxonomy objects remotely.
func (c *Client) EnsureCategory(ctx context.Context, name string) (int64, error) {
	return c.ensureTerm(ctx, "/categories", name)
}

// EnsureTag is EnsureCategory for tags.
func (c *Client) EnsureTag(ctx context.Context, name string) (int64, error) {
	return c.ensureTerm(ctx, "/tags", name)
}

func (c *Client) ensureTerm(ctx context.Context, path, name string) (int64, error) {
	var existing []termResponse
	query := path + "?search=" + url.QueryEscape(name)
	if err := c.do(ctx, http.MethodGet, query, nil, &existing); err != nil {
		return 0, fmt.Errorf("search %s %q: %w", strings.Trim(path, "/"), name, err)
	}

	for _, term := range existing {
		if strings.EqualFold(term.Name, name) {
			return term.ID, nil
		}
	}
	if len(existing) > 0 {
		return existing[0].ID, nil
	}

	var created termResponse
	if err := c.do(ctx, http.MethodPost, path, map[string]any{"name": name}, &created); err != nil {
		return 0, fmt.Errorf("create %s %q: %w", strings.Trim(path, "/"), name, err)
	}

	return created.ID, nil
}

// UploadMedia pushes image bytes into the media library and sets alt text.
func (c *Client) UploadMedia(ctx context.Context, data []byte, filename, altText string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/media", bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("new media request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("upload media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return 0, fmt.Errorf("upload media: %s", readError(resp))
	}

	var media struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&media); err != nil {
		return 0, fmt.Errorf("decode media response: %w", err)
	}

	if altText != "" {
		update := map[string]any{"alt_text": altText}
		if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/media/%d", media.ID), update, nil); err != nil {
			c.logger.Warn("set media alt text failed", "media_id", media.ID, "error", err)
		}
	}

	return media.ID, nil
}

// SetFeaturedImage attaches an uploaded media item to a post.
func (c *Client) SetFeaturedImage(ctx context.Context, postID, mediaID int64) error {
	payload := map[string]any{"featured_media": mediaID}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/posts/%d", postID), payload, nil); err != nil {
		return fmt.Errorf("set featured image on post %d: %w", postID, err)
	}
	return nil
}

// do performs one authenticated API call. Responses with 429 or 5xx status
// come back as retryable errors; other error statuses are permanent.
func (c *Client) do(ctx context.Context, method, path string, payload, v any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return retry.Permanent(fmt.Errorf("marshal payload: %w", err))
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, body)
	if err != nil {
		return retry.Permanent(fmt.Errorf("new request: %w", err))
	}
	req.SetBasicAuth(c.username, c.password)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		err := fmt.Errorf("wordpress %s %s: %s", method, path, readError(resp))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return err
		}
		return retry.Permanent(err)
	}

	if v == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return retry.Permanent(fmt.Errorf("decode response: %w", err))
	}

	return nil
}

func readError(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	detail := strings.TrimSpace(string(raw))
	if detail == "" {
		return resp.Status
	}
	return resp.Status + ": " + detail
}
