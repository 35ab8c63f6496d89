// Bookmarked pages are fetched once, on create, to fill in a missing title.
//
// Settings (METADATA_*):
//   - METADATA_FETCH_TIMEOUT: whole request budget
//   - METADATA_FETCH_MAX_BYTES: body read limit
//   - METADATA_USER_AGENT: sent as User-Agent

package client

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
	"github.com/stashbox/backend/internal/config"
	"github.com/stashbox/backend/internal/model"
)

var ErrNotHTML = errors.New("page is not html")

type MetadataClient struct {
	httpClient *http.Client
	maxBytes   int64
	userAgent  string
	policy     *bluemonday.Policy
}

func NewMetadataClient(cfg config.MetadataConfig) *MetadataClient {
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 2 << 20
	}
	return &MetadataClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		maxBytes:  maxBytes,
		userAgent: cfg.UserAgent,
		policy:    bluemonday.StrictPolicy(),
	}
}

// Fetch downloads pageURL and extracts its title and excerpt. Returned text
// has all markup stripped.
func (c *MetadataClient) Fetch(ctx context.Context, pageURL string) (model.PageMetadata, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return model.PageMetadata{}, fmt.Errorf("parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.PageMetadata{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.PageMetadata{}, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.PageMetadata{}, fmt.Errorf("fetch page: unexpected status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || (mediaType != "text/html" && mediaType != "application/xhtml+xml") {
			return model.PageMetadata{}, fmt.Errorf("%w: %s", ErrNotHTML, ct)
		}
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body, c.maxBytes), u)
	if err != nil {
		return model.PageMetadata{}, fmt.Errorf("extract article: %w", err)
	}

	return model.PageMetadata{
		Title:       c.clean(article.Title),
		Description: c.clean(article.Excerpt),
	}, nil
}

// clean strips markup and collapses whitespace. The policy escapes entities,
// which are decoded again since titles are stored as plain text.
func (c *MetadataClient) clean(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(c.policy.Sanitize(s))), " ")
}
