package prompt

import (
	"bytes"
	"fmt"
	"text/template"

	"emailgen/internal/domain"
	"emailgen/internal/ports"
)

const koreanTemplate = `당신은 전문적인 이메일 작성자입니다.
주제 "{{.Topic}}"를 포함한 이메일을 작성해주세요.

보낸 사람 : {{.Sender}}
받는 사람 : {{.Recipient}}
전부 {{.Language}}로 번역해서 작성해 주세요. 한문은 내용에서 제외해주세요.

이메일 내용:
`

const englishTemplate = `Write an email including the topic {{.Topic}}.

Sender: {{.Sender}}
Recipient: {{.Recipient}}
Please write the entire email in {{.Language}}.

Email content:
`

var templates = map[domain.TemplateKind]*template.Template{
	domain.TemplateKorean:  template.Must(template.New("korean").Parse(koreanTemplate)),
	domain.TemplateEnglish: template.Must(template.New("english").Parse(englishTemplate)),
}

// Builder turns a request into the prompt sent to the model. It holds no state.
type Builder struct{}

func New() *Builder { return &Builder{} }

func (Builder) Build(r domain.Request) (string, error) {
	tpl, ok := templates[r.Language.Template()]
	if !ok {
		return "", fmt.Errorf("no template for language %q", r.Language)
	}
	data := ports.PromptData{
		Topic:     r.Topic,
		Sender:    r.SenderName,
		Recipient: r.RecipientName,
		Language:  string(r.Language),
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
