package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"emailgen/internal/api/app"
	"emailgen/internal/domain"
	"emailgen/internal/usecase/composer"
)

// fakeComposer validates like the real service and records how often the
// backend would have been reached.
type fakeComposer struct {
	calls int
	last  domain.Request
	email string
	err   error
}

func (f *fakeComposer) Compose(_ context.Context, r domain.Request) (composer.Result, error) {
	if err := r.Validate(); err != nil {
		return composer.Result{}, err
	}
	f.calls++
	f.last = r
	if f.err != nil {
		return composer.Result{}, f.err
	}
	return composer.Result{Email: f.email, Prompt: "Write an email including the topic " + r.Topic + ".", Provider: "Local Ollama", Model: "llama3.1:8b", Elapsed: time.Millisecond}, nil
}

func newTestServer(t *testing.T, fc *fakeComposer) *httptest.Server {
	t.Helper()
	s, err := NewServer(fc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return ts
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func TestIndexRendersForm(t *testing.T) {
	ts := newTestServer(t, &fakeComposer{})
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, want := range []string{`name="topic"`, `name="sender"`, `name="recipient"`, `value="한국어" selected`, `value="English"`} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
}

func TestFormGenerate(t *testing.T) {
	cases := []struct {
		name       string
		form       url.Values
		err        error
		wantStatus int
		wantCalls  int
		wantBody   string
	}{
		{
			name:       "success",
			form:       url.Values{"topic": {"Meeting reminder"}, "sender": {"Alice"}, "recipient": {"Bob"}, "language": {"English"}},
			wantStatus: http.StatusOK,
			wantCalls:  1,
			wantBody:   "Dear Bob",
		},
		{
			name:       "empty sender never calls backend",
			form:       url.Values{"topic": {"Meeting reminder"}, "sender": {"  "}, "recipient": {"Bob"}, "language": {"English"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantCalls:  0,
			wantBody:   "sender_name",
		},
		{
			name:       "all empty",
			form:       url.Values{},
			wantStatus: http.StatusUnprocessableEntity,
			wantCalls:  0,
			wantBody:   "topic, sender_name, recipient_name, language",
		},
		{
			name:       "timeout",
			form:       url.Values{"topic": {"t"}, "sender": {"a"}, "recipient": {"b"}, "language": {"한국어"}},
			err:        fmt.Errorf("ollama generate: %w", domain.ErrModelTimeout),
			wantStatus: http.StatusGatewayTimeout,
			wantCalls:  1,
			wantBody:   "did not respond in time",
		},
		{
			name:       "unavailable",
			form:       url.Values{"topic": {"t"}, "sender": {"a"}, "recipient": {"b"}, "language": {"한국어"}},
			err:        fmt.Errorf("ollama generate: %w", domain.ErrModelUnavailable),
			wantStatus: http.StatusBadGateway,
			wantCalls:  1,
			wantBody:   "not reachable",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fc := &fakeComposer{email: "Dear Bob,\nSee you at ten.\nAlice", err: tc.err}
			ts := newTestServer(t, fc)
			resp, err := http.PostForm(ts.URL+"/generate", tc.form)
			if err != nil {
				t.Fatal(err)
			}
			body := readBody(t, resp)
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}
			if fc.calls != tc.wantCalls {
				t.Errorf("backend calls = %d, want %d", fc.calls, tc.wantCalls)
			}
			if !strings.Contains(body, tc.wantBody) {
				t.Errorf("body missing %q:\n%s", tc.wantBody, body)
			}
		})
	}
}

func TestFormKeepsInput(t *testing.T) {
	fc := &fakeComposer{}
	ts := newTestServer(t, fc)
	resp, err := http.PostForm(ts.URL+"/generate", url.Values{"topic": {"Quarterly review"}, "language": {"English"}})
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "Quarterly review") {
		t.Error("topic not echoed back into the form")
	}
	if !strings.Contains(body, `value="English" selected`) {
		t.Error("language selection not kept")
	}
}

func TestJSONGenerate(t *testing.T) {
	fc := &fakeComposer{email: "Hello Bob"}
	ts := newTestServer(t, fc)

	payload, _ := json.Marshal(app.EmailForm{Topic: " Meeting reminder ", Sender: "Alice", Recipient: "Bob", Language: "English"})
	resp, err := http.Post(ts.URL+"/api/generate", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got app.GenerateResult
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if !got.Ok || got.Email != "Hello Bob" || got.Model != "llama3.1:8b" || got.Provider != "Local Ollama" {
		t.Errorf("result = %+v", got)
	}
	if fc.last.Topic != "Meeting reminder" || fc.last.Language != domain.English {
		t.Errorf("request = %+v", fc.last)
	}
	if got.Prompt != "Write an email including the topic Meeting reminder." {
		t.Errorf("prompt = %q", got.Prompt)
	}
}

func TestJSONGenerateValidation(t *testing.T) {
	fc := &fakeComposer{}
	ts := newTestServer(t, fc)

	resp, err := http.Post(ts.URL+"/api/generate", "application/json", strings.NewReader(`{"topic":"x","language":"English"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got app.GenerateResult
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Ok || got.Warning == "" || len(got.Missing) != 2 {
		t.Errorf("result = %+v", got)
	}
	if fc.calls != 0 {
		t.Errorf("backend called %d times", fc.calls)
	}

	resp2, err := http.Post(ts.URL+"/api/generate", "application/json", strings.NewReader(`{not json`))
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusBadRequest {
		t.Errorf("bad json status = %d", resp2.StatusCode)
	}
}

func TestLanguagesAndHealth(t *testing.T) {
	ts := newTestServer(t, &fakeComposer{})

	resp, err := http.Get(ts.URL + "/api/languages")
	if err != nil {
		t.Fatal(err)
	}
	var langs []string
	if err := json.NewDecoder(resp.Body).Decode(&langs); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if len(langs) != 2 || langs[0] != "한국어" || langs[1] != "English" {
		t.Errorf("languages = %v", langs)
	}

	resp, err = http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	if body := readBody(t, resp); resp.StatusCode != http.StatusOK || body != "ok" {
		t.Errorf("healthz = %d %q", resp.StatusCode, body)
	}

	resp, err = http.Get(ts.URL + "/generate")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /generate = %d", resp.StatusCode)
	}
}
