// Package server serves the calculator form as a web page and exposes a small
// JSON API over the same form controller.
package server

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/iwvelando/flip-calculator/internal/form"
)

//go:embed static/*
var staticFiles embed.FS

//go:embed templates/*.html
var templateFiles embed.FS

type handler struct {
	logger      *zap.Logger
	calc        form.Calculator
	maxBodySize int64
	version     string
	page        *template.Template
}

// NewHandler constructs the HTTP handler that serves the web UI and calculation API.
func NewHandler(logger *zap.Logger, calc form.Calculator, cfg *Config) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = &Config{}
		_ = cfg.normalize()
	}

	page, err := template.New("index.html").Funcs(templateFuncs).ParseFS(templateFiles, "templates/index.html")
	if err != nil {
		panic(fmt.Sprintf("failed to parse embedded templates: %v", err))
	}

	h := &handler{
		logger:      logger,
		calc:        calc,
		maxBodySize: cfg.BodySizeBytes(),
		version:     cfg.Version,
		page:        page,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(h.limitBody)

	r.Get("/", h.handleIndex)
	r.Post("/", h.handleSubmit)
	r.Get("/healthz", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(newCORS(cfg.AllowedOrigins).Handler)
		r.Post("/validate", h.handleValidate)
		r.Post("/calculate", h.handleCalculate)
		r.Get("/version", h.handleVersion)
	})

	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(sub))))

	return r
}

func (h *handler) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.maxBodySize > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctrl := form.NewController(h.calc, h.logger)
	h.renderPage(w, http.StatusOK, ctrl.State(), "server.handleIndex")
}

// handleSubmit is the no-JavaScript path: the browser posts the whole form,
// the page comes back with inline errors, the banner, or the summary.
func (h *handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSubmit"

	if err := r.ParseForm(); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			http.Error(w, fmt.Sprintf("form exceeds limit of %d bytes", h.maxBodySize), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, fmt.Sprintf("failed to parse form: %v", err), http.StatusBadRequest)
		return
	}

	ctrl := form.NewController(h.calc, h.logger)
	for _, f := range form.Fields {
		if _, err := ctrl.Edit(f, r.PostForm.Get(string(f))); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	err := ctrl.Submit(r.Context())
	h.renderPage(w, submitStatus(err), ctrl.State(), op)
}

type validateRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type validateResponse struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// handleValidate backs live per-field validation while the user types.
func (h *handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleValidate"

	var req validateRequest
	if status, err := decodeJSON(r, &req); err != nil {
		h.respondErrorWithOp(w, status, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	field, ok := form.ParseField(req.Field)
	if !ok {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("%v: %q", form.ErrUnknownField, req.Field), op)
		return
	}

	h.writeJSON(w, http.StatusOK, validateResponse{
		Field: string(field),
		Error: form.ValidateField(field, req.Value),
	})
}

type calculateResponse struct {
	Result      any               `json:"result,omitempty"`
	Error       string            `json:"error,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

// handleCalculate accepts the raw field values as strings, exactly as they
// were typed, and runs them through the same submit path as the page.
func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"

	var raw map[string]string
	if status, err := decodeJSON(r, &raw); err != nil {
		h.respondErrorWithOp(w, status, fmt.Sprintf("failed to decode form data: %v", err), op)
		return
	}

	ctrl := form.NewController(h.calc, h.logger)
	for name, value := range raw {
		field, ok := form.ParseField(name)
		if !ok {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("%v: %q", form.ErrUnknownField, name), op)
			return
		}
		if _, err := ctrl.Edit(field, value); err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
			return
		}
	}

	err := ctrl.Submit(r.Context())
	state := ctrl.State()
	status := submitStatus(err)

	resp := calculateResponse{Error: state.SubmissionError}
	if state.Result != nil {
		resp.Result = state.Result
	}
	if len(state.Errors) > 0 {
		resp.FieldErrors = make(map[string]string, len(state.Errors))
		for f, msg := range state.Errors {
			resp.FieldErrors[string(f)] = msg
		}
	}

	if err != nil {
		h.logger.Warn("calculation request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", state.SubmissionError),
		)
	}
	h.writeJSON(w, status, resp)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// submitStatus maps a Submit outcome to the response status.
func submitStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, form.ErrInvalidForm):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

// decodeJSON reads the whole body before decoding so an oversized body is
// reported as such rather than as a syntax error.
func decodeJSON(r *http.Request, v interface{}) (int, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return http.StatusRequestEntityTooLarge, fmt.Errorf("body exceeds limit of %d bytes", maxBytesErr.Limit)
		}
		return http.StatusBadRequest, err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return http.StatusBadRequest, err
	}
	return http.StatusOK, nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
