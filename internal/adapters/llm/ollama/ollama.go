package ollama

import (
	"context"
	"strings"
	"time"

	"emailgen/internal/adapters/llm/httpclient"
	"emailgen/internal/ports"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL     = "http://localhost:11434"
	DefaultModel       = "llama3.1:8b"
	DefaultTemperature = 0.7
)

type Client struct {
	BaseURL string
	Model   string
	http    *resty.Client
}

func New(baseURL, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{BaseURL: baseURL, Model: model, http: httpclient.New(timeout)}
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate runs one non-streaming completion against /api/generate.
func (c *Client) Generate(ctx context.Context, p ports.GenerateParams) (ports.GenerateResult, error) {
	model := p.Model
	if model == "" {
		model = c.Model
	}
	opts := map[string]any{"temperature": p.Temperature}
	if p.MaxTokens > 0 {
		opts["num_predict"] = p.MaxTokens
	}
	body := generateRequest{Model: model, Prompt: p.Prompt, Stream: false, Options: opts}

	var resp generateResponse
	rr, err := c.http.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).SetResult(&resp).
		Post(httpclient.JoinURL(c.BaseURL, "/api/generate"))
	if err := httpclient.Classify("ollama generate", rr, err); err != nil {
		return ports.GenerateResult{}, err
	}
	if resp.Model != "" {
		model = resp.Model
	}
	return ports.GenerateResult{Text: resp.Response, Model: model}, nil
}

func (c *Client) ListModels(ctx context.Context) ([]ports.ModelInfo, error) {
	var resp struct{ Models []struct{ Name string `json:"name"` } `json:"models"` }
	rr, err := c.http.R().SetContext(ctx).SetResult(&resp).Get(httpclient.JoinURL(c.BaseURL, "/api/tags"))
	if err := httpclient.Classify("ollama list models", rr, err); err != nil {
		return nil, err
	}
	out := make([]ports.ModelInfo, 0, len(resp.Models))
	for _, m := range resp.Models {
		out = append(out, ports.ModelInfo{Name: m.Name})
	}
	return out, nil
}

// Test checks that the server answers and that the configured model is pulled.
func (c *Client) Test(ctx context.Context) error {
	models, err := c.ListModels(ctx)
	if err != nil {
		return err
	}
	for _, m := range models {
		if m.Name == c.Model || strings.TrimSuffix(m.Name, ":latest") == c.Model {
			return nil
		}
	}
	return &ModelNotPulledError{Model: c.Model}
}

// ModelNotPulledError is returned by Test when the server is up but lacks the model.
type ModelNotPulledError struct{ Model string }

func (e *ModelNotPulledError) Error() string {
	return "ollama: model " + e.Model + " is not pulled; run `ollama pull " + e.Model + "`"
}
