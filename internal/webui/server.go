package webui

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"xlink-template-picker/internal/gallery"
	"xlink-template-picker/internal/selection"
	"xlink-template-picker/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const defaultCookieName = "xlink_session"

type Options struct {
	Sessions   *session.Store
	Committer  *selection.Committer
	Logger     *slog.Logger
	CookieName string
	// SecureCookie marks the session cookie Secure; enable behind TLS.
	SecureCookie bool
}

type Server struct {
	sessions     *session.Store
	committer    *selection.Committer
	logger       *slog.Logger
	cookieName   string
	secureCookie bool
	page         *template.Template
	validate     *validator.Validate
}

// actionForm is the body of POST /action.
type actionForm struct {
	Kind    string `validate:"required,oneof=select_category select_template set_background set_accent toggle_effect reset"`
	Value   string `validate:"max=128"`
	Enabled bool
}

type apiError struct {
	Error string `json:"error"`
}

type stateResponse struct {
	TemplateID    string                     `json:"template_id,omitempty"`
	Category      string                     `json:"category"`
	Customization gallery.CustomizationState `json:"customization"`
	Preview       previewResponse            `json:"preview"`
	Status        string                     `json:"status,omitempty"`
	StatusText    string                     `json:"status_text,omitempty"`
	Committing    bool                       `json:"committing"`
}

type previewResponse struct {
	Background  string   `json:"background"`
	BorderColor string   `json:"border_color"`
	Classes     []string `json:"classes"`
}

type pageData struct {
	View       gallery.View
	Background template.CSS
	Classes    string
	Error      string
}

func New(opts Options) (*Server, error) {
	if opts.Sessions == nil {
		return nil, errors.New("session store is nil")
	}
	if opts.Committer == nil {
		return nil, errors.New("committer is nil")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cookieName := strings.TrimSpace(opts.CookieName)
	if cookieName == "" {
		cookieName = defaultCookieName
	}

	page, err := template.New("gallery.html").Funcs(template.FuncMap{
		"upper": strings.ToUpper,
	}).ParseFS(templateFS, "templates/gallery.html")
	if err != nil {
		return nil, err
	}

	return &Server{
		sessions:     opts.Sessions,
		committer:    opts.Committer,
		logger:       logger,
		cookieName:   cookieName,
		secureCookie: opts.SecureCookie,
		page:         page,
		validate:     validator.New(),
	}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/action", s.handleAction)
	mux.HandleFunc("/confirm", s.handleConfirm)
	mux.HandleFunc("/api/state", s.handleState)
	mux.Handle("/metrics", promhttp.Handler())
	return withLogging(mux, s.logger)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	key := s.sessionKey(w, r)
	s.render(w, http.StatusOK, pageData{View: s.sessions.Get(r.Context(), key)})
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	key := s.sessionKey(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, 16<<10)
	if err := r.ParseForm(); err != nil {
		s.render(w, http.StatusBadRequest, pageData{View: s.sessions.Get(r.Context(), key), Error: "invalid form"})
		return
	}

	form := actionForm{
		Kind:    strings.TrimSpace(r.PostForm.Get("kind")),
		Value:   strings.TrimSpace(r.PostForm.Get("value")),
		Enabled: parseBool(r.PostForm.Get("enabled")),
	}
	if err := s.validateAction(form); err != nil {
		s.logger.Debug("rejected action", "kind", form.Kind, "err", err)
		s.render(w, http.StatusBadRequest, pageData{View: s.sessions.Get(r.Context(), key), Error: "invalid action"})
		return
	}

	var dispatchErr error
	s.sessions.Update(r.Context(), key, func(e *gallery.Engine) {
		dispatchErr = e.Dispatch(gallery.Action{
			Kind:    gallery.ActionKind(form.Kind),
			Value:   form.Value,
			Enabled: form.Enabled,
		})
	})
	if dispatchErr != nil {
		s.render(w, http.StatusBadRequest, pageData{View: s.sessions.Get(r.Context(), key), Error: dispatchErr.Error()})
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) validateAction(form actionForm) error {
	if err := s.validate.Struct(form); err != nil {
		return err
	}
	switch gallery.ActionKind(form.Kind) {
	case gallery.ActionSetBackground, gallery.ActionSetAccent:
		return s.validate.Var(form.Value, "required,hexcolor")
	case gallery.ActionSelectCategory, gallery.ActionSelectTemplate, gallery.ActionToggleEffect:
		return s.validate.Var(form.Value, "required")
	}
	return nil
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	key := s.sessionKey(w, r)

	view, started := s.sessions.Commit(r.Context(), key, s.committer)
	if !started && !view.Committing {
		s.render(w, http.StatusConflict, pageData{View: view, Error: "pick a template first"})
		return
	}

	if nav := view.Navigation; nav != nil {
		w.Header().Set("Refresh", refreshHeader(nav))
	}
	s.render(w, http.StatusOK, pageData{View: view})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, apiError{Error: "method not allowed"})
		return
	}
	key := s.sessionKey(w, r)

	var resp stateResponse
	s.sessions.Update(r.Context(), key, func(e *gallery.Engine) {
		view := e.View()
		resp = stateResponse{
			Category:      view.ActiveCategory,
			Customization: e.Customization(),
			Preview: previewResponse{
				Background:  view.Style.Background,
				BorderColor: view.Style.BorderColor,
				Classes:     view.Style.Classes(),
			},
			Status:     string(view.Status.Kind),
			StatusText: view.Status.Text,
			Committing: view.Committing,
		}
		if t, ok := e.Active(); ok {
			resp.TemplateID = t.TemplateID
		}
	})

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	// Background is assembled from numeric rgba() channels only.
	data.Background = template.CSS(data.View.Style.Background)
	data.Classes = strings.Join(data.View.Style.Classes(), " ")

	w.Header().Set("content-type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("render page failed", "err", err)
	}
}

// sessionKey returns the session id from the cookie, issuing a new one when
// it is missing or malformed.
func (s *Server) sessionKey(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(s.cookieName); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func refreshHeader(nav *gallery.Navigation) string {
	seconds := strconv.FormatFloat(nav.Delay.Seconds(), 'f', -1, 64)
	return seconds + "; url=" + nav.URL
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseBool(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func withLogging(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("http", "method", r.Method, "path", r.URL.Path, "dur_ms", time.Since(start).Milliseconds())
	})
}
