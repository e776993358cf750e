// Package assist calls a stateless text-completion endpoint to suggest an
// impact narrative from a record's title and content. Failures here are
// never fatal: the caller just leaves the field unpopulated.
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/kaizenlib/internal/logging"
)

// Provider is an HTTP client for the narrative suggestion endpoint.
type Provider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        logging.Logger
}

func NewProvider(baseURL, apiKey string, logger logging.Logger) *Provider {
	return &Provider{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger.With("component", "assist"),
	}
}

type suggestRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type suggestResponse struct {
	Text string `json:"text"`
}

// Suggest asks the endpoint for an impact narrative.
func (p *Provider) Suggest(ctx context.Context, title, content string) (string, error) {
	body, err := json.Marshal(suggestRequest{Title: title, Content: content})
	if err != nil {
		return "", fmt.Errorf("assist: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("assist: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.log.Warn(ctx, "assist request failed", "error", err)
		return "", fmt.Errorf("assist: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("assist: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("assist: read body: %w", err)
	}

	var out suggestResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("assist: decode json: %w", err)
	}

	return out.Text, nil
}
