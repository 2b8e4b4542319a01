// Package openaicompat talks to servers exposing the OpenAI chat completions
// wire format: a local llama.cpp server or OpenRouter.
package openaicompat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"emailgen/internal/adapters/llm/httpclient"
	"emailgen/internal/domain"
	"emailgen/internal/ports"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultLlamaCppURL   = "http://localhost:8080"
	DefaultOpenRouterURL = "https://openrouter.ai"
)

type Client struct {
	ProviderType string
	APIKey       string
	BaseURL      string
	Model        string
	http         *resty.Client
}

func New(providerType, apiKey, baseURL, model string, timeout time.Duration) *Client {
	providerType = strings.ToLower(providerType)
	if baseURL == "" {
		baseURL = DefaultLlamaCppURL
		if providerType == domain.ProviderOpenRouter {
			baseURL = DefaultOpenRouterURL
		}
	}
	return &Client{ProviderType: providerType, APIKey: apiKey, BaseURL: baseURL, Model: model, http: httpclient.New(timeout)}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model,omitempty"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Stream      bool      `json:"stream"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

func (c *Client) request(ctx context.Context) *resty.Request {
	r := c.http.R().SetContext(ctx).SetHeader("Content-Type", "application/json")
	if c.APIKey != "" {
		r.SetHeader("Authorization", "Bearer "+c.APIKey)
	}
	if c.ProviderType == domain.ProviderOpenRouter {
		r.SetHeader("X-Title", "emailgen")
	}
	return r
}

func (c *Client) Generate(ctx context.Context, p ports.GenerateParams) (ports.GenerateResult, error) {
	model := p.Model
	if model == "" {
		model = c.Model
	}
	body := chatRequest{
		Model:       model,
		Messages:    []message{{Role: "user", Content: p.Prompt}},
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
	}
	var resp chatResponse
	rr, err := c.request(ctx).SetBody(body).SetResult(&resp).Post(apiURL(c.BaseURL, "/chat/completions"))
	if err := httpclient.Classify(c.ProviderType+" generate", rr, err); err != nil {
		return ports.GenerateResult{}, err
	}
	if len(resp.Choices) == 0 {
		return ports.GenerateResult{}, fmt.Errorf("%s generate: no choices returned", c.ProviderType)
	}
	if resp.Model != "" {
		model = resp.Model
	}
	return ports.GenerateResult{Text: resp.Choices[0].Message.Content, Model: model}, nil
}

func (c *Client) ListModels(ctx context.Context) ([]ports.ModelInfo, error) {
	var resp struct {
		Data []struct {
			ID            string `json:"id"`
			Name          string `json:"name"`
			ContextLength int    `json:"context_length"`
		} `json:"data"`
	}
	rr, err := c.request(ctx).SetResult(&resp).Get(apiURL(c.BaseURL, "/models"))
	if err := httpclient.Classify(c.ProviderType+" list models", rr, err); err != nil {
		return nil, err
	}
	out := make([]ports.ModelInfo, 0, len(resp.Data))
	for _, d := range resp.Data {
		label := d.Name
		if label == "" {
			label = d.ID
		}
		out = append(out, ports.ModelInfo{Name: d.ID, Description: label, ContextTokens: d.ContextLength})
	}
	return out, nil
}

func (c *Client) Test(ctx context.Context) error {
	_, err := c.ListModels(ctx)
	return err
}

// apiURL builds an endpoint URL whether base already carries /api/v1 (OpenRouter)
// or /v1 (llama.cpp) or neither.
func apiURL(base, tail string) string {
	b := strings.TrimRight(base, "/")
	if idx := strings.Index(b, "/api/v1"); idx >= 0 {
		return b[:idx+len("/api/v1")] + tail
	}
	if strings.HasSuffix(b, "/v1") {
		return b + tail
	}
	if strings.Contains(b, "openrouter.ai") {
		return b + "/api/v1" + tail
	}
	return b + "/v1" + tail
}
