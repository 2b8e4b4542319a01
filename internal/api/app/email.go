package app

import (
	"context"
	"errors"
	"strings"

	"emailgen/internal/domain"
	"emailgen/internal/usecase/composer"
)

type EmailAPI struct {
	svc *composer.Service
}

func NewEmailAPI(svc *composer.Service) *EmailAPI { return &EmailAPI{svc: svc} }

// EmailForm is the raw form state sent by the UI on submit.
type EmailForm struct {
	Topic     string `json:"topic"`
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Language  string `json:"language"`
}

// GenerateResult is what the UI renders after a submit. Exactly one of
// Email, Warning and Error is set.
type GenerateResult struct {
	Ok       bool     `json:"ok"`
	Email    string   `json:"email,omitempty"`
	Model    string   `json:"model,omitempty"`
	Provider string   `json:"provider,omitempty"`
	Prompt   string   `json:"prompt,omitempty"`
	Warning  string   `json:"warning,omitempty"`
	Missing  []string `json:"missing,omitempty"`
	Error    string   `json:"error,omitempty"`
	Detail   string   `json:"detail,omitempty"`
}

type LanguageOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Languages returns the selector options, Korean first.
func (a *EmailAPI) Languages() []LanguageOption {
	out := make([]LanguageOption, 0, len(domain.Languages))
	for _, l := range domain.Languages {
		out = append(out, LanguageOption{Value: string(l), Label: string(l)})
	}
	return out
}

// Generate blocks until the backend has produced the whole email.
func (a *EmailAPI) Generate(f EmailForm) GenerateResult {
	res, err := a.svc.Compose(context.Background(), f.Request())
	if err != nil {
		return Failure(err)
	}
	return Success(res)
}

// Preview returns the prompt the model would receive, without calling it.
func (a *EmailAPI) Preview(f EmailForm) (string, error) {
	return a.svc.Preview(f.Request())
}

// Request builds the immutable request value for this submit.
func (f EmailForm) Request() domain.Request {
	return domain.NewRequest(f.Topic, f.Sender, f.Recipient, f.Language)
}

func Success(res composer.Result) GenerateResult {
	return GenerateResult{Ok: true, Email: res.Email, Model: res.Model, Provider: res.Provider, Prompt: res.Prompt}
}

// Failure maps a Compose error onto the message shown to the user.
func Failure(err error) GenerateResult {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return GenerateResult{Warning: "Please fill in every field.", Missing: ve.Fields}
	case errors.Is(err, domain.ErrModelTimeout):
		return GenerateResult{Error: "The model did not respond in time. Try again or raise the timeout in settings.", Detail: err.Error()}
	case errors.Is(err, domain.ErrModelUnavailable):
		return GenerateResult{Error: "The model is not reachable. Check that the model runtime is running and the model is installed.", Detail: err.Error()}
	case errors.Is(err, domain.ErrNoActiveProvider):
		return GenerateResult{Error: "No model backend is selected. Choose one in settings.", Detail: err.Error()}
	default:
		return GenerateResult{Error: "Email generation failed.", Detail: strings.TrimSpace(err.Error())}
	}
}
