package domain

import "strings"

// Language is the target language chosen on the form. The value doubles as the
// language token written into the prompt.
type Language string

const (
	Korean  Language = "한국어"
	English Language = "English"
)

// Languages lists the selector options in display order.
var Languages = []Language{Korean, English}

// TemplateKind identifies one of the two fixed prompt templates.
type TemplateKind int

const (
	TemplateKorean TemplateKind = iota
	TemplateEnglish
)

// Template returns the template used for l. Only Korean has its own template;
// every other value, known or not, uses the English one.
func (l Language) Template() TemplateKind {
	switch l {
	case Korean:
		return TemplateKorean
	default:
		return TemplateEnglish
	}
}

// Request is one email generation request, built once when the form is submitted.
type Request struct {
	Topic         string   `json:"topic"`
	SenderName    string   `json:"sender_name"`
	RecipientName string   `json:"recipient_name"`
	Language      Language `json:"language"`
}

// NewRequest trims the raw form values into a Request.
func NewRequest(topic, sender, recipient, language string) Request {
	return Request{
		Topic:         strings.TrimSpace(topic),
		SenderName:    strings.TrimSpace(sender),
		RecipientName: strings.TrimSpace(recipient),
		Language:      Language(strings.TrimSpace(language)),
	}
}

// Validate reports every empty field at once.
func (r Request) Validate() error {
	var missing []string
	if r.Topic == "" {
		missing = append(missing, "topic")
	}
	if r.SenderName == "" {
		missing = append(missing, "sender_name")
	}
	if r.RecipientName == "" {
		missing = append(missing, "recipient_name")
	}
	if r.Language == "" {
		missing = append(missing, "language")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
