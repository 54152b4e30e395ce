// Package engine holds the HTTP client for the external image-generation
// engine. The engine is a black box: one synchronous JSON call in, images
// plus metadata out. Failures are reported as-is and translated to
// domain.ErrGenerationFailed by the caller.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/imezy/imezy-api/internal/core/domain"
	"github.com/imezy/imezy-api/internal/core/ports"
)

// kindPaths maps each metered operation to the engine endpoint serving it.
var kindPaths = map[domain.GenerationKind]string{
	domain.KindTxt2Img: "/sdapi/v1/txt2img",
	domain.KindImg2Img: "/sdapi/v1/img2img",
	domain.KindUpscale: "/sdapi/v1/extra-single-image",
}

// Client calls the engine over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// engineResponse covers both generation responses ("images"/"info") and the
// upscale response ("image"/"html_info").
type engineResponse struct {
	Images   []string `json:"images"`
	Image    string   `json:"image"`
	Info     string   `json:"info"`
	HTMLInfo string   `json:"html_info"`
}

func (c *Client) Generate(ctx context.Context, kind domain.GenerationKind, params ports.GenerateParams) (*domain.GenerationResult, error) {
	path, ok := kindPaths[kind]
	if !ok {
		return nil, fmt.Errorf("unknown generation kind %q", kind)
	}

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode engine request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build engine request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("engine call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("engine returned %d: %s", resp.StatusCode, snippet)
	}

	var er engineResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("decode engine response: %w", err)
	}

	result := &domain.GenerationResult{Images: er.Images, Info: er.Info}
	if len(result.Images) == 0 && er.Image != "" {
		result.Images = []string{er.Image}
		result.Info = er.HTMLInfo
	}

	c.logger.Debug().
		Str("kind", string(kind)).
		Int("images", len(result.Images)).
		Dur("elapsed", time.Since(start)).
		Msg("engine call completed")

	return result, nil
}
