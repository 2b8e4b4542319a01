// Package web serves the email form over HTTP for use without the desktop shell.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"emailgen/internal/api/app"
	"emailgen/internal/domain"
	"emailgen/internal/usecase/composer"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// maxFormBytes caps a submitted form; topics are short free text.
const maxFormBytes = 64 << 10

// Composer is the part of the composer service the handlers need.
type Composer interface {
	Compose(ctx context.Context, r domain.Request) (composer.Result, error)
}

type Server struct {
	templates *template.Template
	svc       Composer
	log       *slog.Logger
}

// FormView is the data behind the single page.
type FormView struct {
	Languages []domain.Language
	Form      app.EmailForm
	Result    *app.GenerateResult
}

func NewServer(svc Composer, log *slog.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{templates: tmpl, svc: svc, log: log}, nil
}

// Router wires every route of the form server.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.HandleIndex).Methods(http.MethodGet)
	r.HandleFunc("/generate", s.HandleGenerate).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.HandleHealth).Methods(http.MethodGet)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/languages", s.HandleLanguages).Methods(http.MethodGet)
	api.HandleFunc("/generate", s.HandleGenerateJSON).Methods(http.MethodPost)
	return r
}

func (s *Server) HandleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, FormView{Languages: domain.Languages, Form: app.EmailForm{Language: string(domain.Korean)}})
}

func (s *Server) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := app.EmailForm{
		Topic:     r.FormValue("topic"),
		Sender:    r.FormValue("sender"),
		Recipient: r.FormValue("recipient"),
		Language:  r.FormValue("language"),
	}
	res, status := s.generate(r.Context(), form)
	s.render(w, status, FormView{Languages: domain.Languages, Form: form, Result: &res})
}

func (s *Server) HandleGenerateJSON(w http.ResponseWriter, r *http.Request) {
	var form app.EmailForm
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBytes)).Decode(&form); err != nil {
		s.sendJSON(w, http.StatusBadRequest, app.GenerateResult{Error: "invalid JSON body", Detail: err.Error()})
		return
	}
	res, status := s.generate(r.Context(), form)
	s.sendJSON(w, status, res)
}

func (s *Server) HandleLanguages(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, domain.Languages)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) generate(ctx context.Context, form app.EmailForm) (app.GenerateResult, int) {
	res, err := s.svc.Compose(ctx, form.Request())
	if err == nil {
		return app.Success(res), http.StatusOK
	}
	out := app.Failure(err)
	switch {
	case domain.IsValidation(err):
		return out, http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrModelTimeout):
		s.log.Warn("generate failed", "err", err)
		return out, http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrModelUnavailable):
		s.log.Warn("generate failed", "err", err)
		return out, http.StatusBadGateway
	default:
		s.log.Error("generate failed", "err", err)
		return out, http.StatusInternalServerError
	}
}

func (s *Server) render(w http.ResponseWriter, status int, view FormView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, "index", view); err != nil {
		s.log.Error("render index", "err", err)
	}
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", "err", err)
	}
}
