// Package webhook forwards contact submissions to an external HTTP endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/damedesign/portfolio/internal/domain/model"
	jmespath "github.com/jmespath-community/go-jmespath"
)

// Config captures webhook delivery settings.
type Config struct {
	URL string
	// BodyExpr is a JMESPath expression applied to the submission document.
	// An empty expression posts the whole document.
	BodyExpr   string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
	SiteName   string
}

// Client implements ports.ContactWebhook.
type Client struct {
	url        string
	expr       string
	retryLimit int
	siteName   string
	client     *http.Client
}

// NewClient builds a webhook client, rejecting an unparseable body expression.
func NewClient(cfg Config) (*Client, error) {
	target := strings.TrimSpace(cfg.URL)
	if target == "" {
		return nil, errors.New("webhook url is required")
	}
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid webhook url scheme: %s", u.Scheme)
	}
	if strings.TrimSpace(u.Host) == "" {
		return nil, errors.New("invalid webhook url: missing host")
	}

	expr := strings.TrimSpace(cfg.BodyExpr)
	if expr != "" {
		if _, err := jmespath.Compile(expr); err != nil {
			return nil, fmt.Errorf("invalid webhook body expression: %w", err)
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	retries := max(cfg.RetryLimit, 0)
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{url: target, expr: expr, retryLimit: retries, siteName: cfg.SiteName, client: hc}, nil
}

// Deliver posts the submission, retrying with linear backoff.
func (c *Client) Deliver(ctx context.Context, sub model.ContactSubmission) error {
	body, err := c.buildBody(sub)
	if err != nil {
		return err
	}

	attempts := c.retryLimit + 1
	var lastErr error
	for attempt := range attempts {
		err = c.post(ctx, body)
		if err == nil {
			return nil
		}
		lastErr = err
		if attempt < attempts-1 {
			delay := time.Duration(attempt+1) * 200 * time.Millisecond
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	return lastErr
}

// document is the JSON shape the body expression is evaluated against.
func (c *Client) document(sub model.ContactSubmission) map[string]any {
	attachments := make([]any, 0, len(sub.AttachmentURLs))
	for _, a := range sub.Attachments() {
		attachments = append(attachments, map[string]any{"name": a.Name, "url": a.URL})
	}
	return map[string]any{
		"site":        c.siteName,
		"id":          float64(sub.ID),
		"created_at":  sub.CreatedAt.UTC().Format(time.RFC3339),
		"email":       sub.Email,
		"subject":     sub.Subject,
		"message":     sub.Message,
		"attachments": attachments,
	}
}

func (c *Client) buildBody(sub model.ContactSubmission) ([]byte, error) {
	doc := c.document(sub)
	var payload any = doc
	if c.expr != "" {
		projected, err := jmespath.Search(c.expr, doc)
		if err != nil {
			return nil, fmt.Errorf("evaluate webhook body expression: %w", err)
		}
		payload = projected
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode webhook payload: %w", err)
	}
	return body, nil
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("webhook %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("drain webhook response body: %w", err)
	}
	return nil
}
