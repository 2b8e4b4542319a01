package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"emailgen/internal/domain"
	"emailgen/internal/ports"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

type Client struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

func New(apiKey, baseURL, model string, timeout time.Duration) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{APIKey: apiKey, BaseURL: baseURL, Model: model, Timeout: timeout}
}

// client builds a genai client per call; nothing is pooled between generations.
func (c *Client) client(ctx context.Context) (*genai.Client, error) {
	cfg := &genai.ClientConfig{APIKey: c.APIKey, Backend: genai.BackendGeminiAPI}
	if c.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.BaseURL}
	}
	if c.Timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	cl, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w: %v", domain.ErrModelUnavailable, err)
	}
	return cl, nil
}

func (c *Client) Generate(ctx context.Context, p ports.GenerateParams) (ports.GenerateResult, error) {
	cl, err := c.client(ctx)
	if err != nil {
		return ports.GenerateResult{}, err
	}
	model := p.Model
	if model == "" {
		model = c.Model
	}
	conf := &genai.GenerateContentConfig{Temperature: genai.Ptr(float32(p.Temperature))}
	if p.MaxTokens > 0 {
		conf.MaxOutputTokens = int32(p.MaxTokens)
	}
	resp, err := cl.Models.GenerateContent(ctx, model, genai.Text(p.Prompt), conf)
	if err != nil {
		return ports.GenerateResult{}, classify("gemini generate", err)
	}
	return ports.GenerateResult{Text: resp.Text(), Model: model}, nil
}

func (c *Client) ListModels(ctx context.Context) ([]ports.ModelInfo, error) {
	cl, err := c.client(ctx)
	if err != nil {
		return nil, err
	}
	page, err := cl.Models.List(ctx, &genai.ListModelsConfig{})
	if err != nil {
		return nil, classify("gemini list models", err)
	}
	out := make([]ports.ModelInfo, 0, len(page.Items))
	for _, m := range page.Items {
		out = append(out, ports.ModelInfo{
			Name:          strings.TrimPrefix(m.Name, "models/"),
			Description:   m.DisplayName,
			ContextTokens: int(m.InputTokenLimit),
		})
	}
	return out, nil
}

func (c *Client) Test(ctx context.Context) error {
	_, err := c.ListModels(ctx)
	return err
}

func classify(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout exceeded") {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrModelTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if code, ok := apiErrorCode(err); ok && (code == http.StatusGatewayTimeout || code == http.StatusRequestTimeout) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrModelTimeout, err)
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrModelUnavailable, err)
}

func apiErrorCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}
