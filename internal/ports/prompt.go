package ports

import "emailgen/internal/domain"

// PromptData is what the email templates can reference.
type PromptData struct {
	Topic     string
	Sender    string
	Recipient string
	Language  string
}

type PromptBuilder interface {
	Build(r domain.Request) (string, error)
}
