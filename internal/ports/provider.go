package ports

import (
	"context"
)

type GenerateParams struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Prompt      string
}

type GenerateResult struct {
	Text  string
	Model string
}

type ModelInfo struct {
	Name          string
	Description   string
	ContextTokens int
}

// Provider represents a single LLM backend. Generate blocks until the whole
// completion is available; adapters report unreachable or slow runtimes as
// domain.ErrModelUnavailable and domain.ErrModelTimeout.
type Provider interface {
	Generate(ctx context.Context, p GenerateParams) (GenerateResult, error)
	ListModels(ctx context.Context) ([]ModelInfo, error)
	Test(ctx context.Context) error
}
