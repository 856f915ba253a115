// Package web implements the interactive runner: a browser form that starts a
// label reconciliation run and streams its log back as it happens.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"pkt.systems/pslog"

	"labelsync/pkg/config"
	"labelsync/pkg/github"
)

const maxRunRequestBytes = 1 << 20

// ClientFactory builds the GitHub client for one run from the submitted token
type ClientFactory func(token string) (github.APIClient, error)

// NewClientFactory returns a ClientFactory for the GitHub API at baseURL.
// An empty baseURL selects api.github.com. Clients are kept per token, so a
// repeated run revalidates its cached lists by ETag instead of refetching.
func NewClientFactory(baseURL string) ClientFactory {
	pool := newClientPool(maxPooledClients, func(token string) (github.APIClient, error) {
		return github.NewClientWithOptions(github.ClientOptions{Token: token, BaseURL: baseURL})
	})
	return pool.get
}

// Handler serves the form page and runs reconciliations
type Handler struct {
	clients ClientFactory
	page    *template.Template
	help    template.HTML
}

// NewHandler creates a Handler that builds GitHub clients with clients
func NewHandler(clients ClientFactory) (*Handler, error) {
	if clients == nil {
		return nil, errors.New("web: client factory is required")
	}

	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Handler{
		clients: clients,
		page:    page,
		help:    RenderMarkdown(github.GetAuthInstructions()),
	}, nil
}

type indexData struct {
	CSRFToken string
	Labels    []github.Label
	Help      template.HTML
}

// Index renders the form with the default label set
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	data := indexData{
		CSRFToken: csrfToken(w, r),
		Labels:    github.DefaultLabels(),
		Help:      h.help,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.page.Execute(w, data); err != nil {
		pslog.Ctx(r.Context()).Error("failed to render index", "err", err)
	}
}

// runRequest is the JSON body of POST /api/runs
type runRequest struct {
	Token        string         `json:"token"`
	Organization string         `json:"organization"`
	Labels       []github.Label `json:"labels"`
	DryRun       bool           `json:"dry_run"`
}

// RunLabels validates the submitted form and runs a reconciliation, streaming
// one LogEntry per event as NDJSON. Invalid input is rejected with a JSON
// error before any GitHub request is made.
func (h *Handler) RunLabels(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		writeError(w, http.StatusForbidden, "invalid or missing CSRF token")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRunRequestBytes)
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// An empty list in the form means the user removed every row.
	if len(req.Labels) == 0 {
		writeError(w, http.StatusBadRequest, "at least one label is required")
		return
	}

	run, err := config.NewRunConfig(req.Token, req.Organization, req.Labels)
	if err != nil {
		writeError(w, http.StatusBadRequest, formError(err))
		return
	}

	client, err := h.clients(run.Token())
	if err != nil {
		pslog.Ctx(r.Context()).Error("failed to create GitHub client", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to create GitHub client")
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	// A started run always finishes, even if the browser goes away.
	ctx := context.WithoutCancel(r.Context())
	logger := pslog.Ctx(ctx).With("org", run.Organization(), "dry_run", req.DryRun)

	sink := newStreamSink(w)
	reconciler := github.NewReconciler(client, sink, github.WithDryRun(req.DryRun))

	start := time.Now()
	summary, err := reconciler.Run(ctx, run.Organization(), run.Labels())
	if err != nil {
		logger.Warn("label run failed", "err", err, "duration_ms", time.Since(start).Milliseconds())
		return
	}

	logger.Info("label run complete",
		"repositories", summary.RepositoriesProcessed,
		"added", summary.LabelsAdded,
		"planned", summary.LabelsPlanned,
		"entries", sink.written,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// Healthz reports liveness
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON marshals v to JSON and writes it with the given status code
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

type errorResponse struct {
	Error string `json:"error"`
}

// formFields maps the variables a batch run reads to the form inputs that
// carry them in an interactive run.
var formFields = map[string]string{
	config.EnvToken:        "token",
	config.EnvOrganization: "organization",
}

// formError phrases a run configuration error in terms of the form
func formError(err error) string {
	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) {
		return err.Error()
	}

	var parts []string
	if len(cfgErr.Missing) > 0 {
		fields := make([]string, 0, len(cfgErr.Missing))
		for _, name := range cfgErr.Missing {
			if field, ok := formFields[name]; ok {
				name = field
			}
			fields = append(fields, name)
		}
		parts = append(parts, "missing required fields: "+strings.Join(fields, ", "))
	}
	if cfgErr.Err != nil {
		parts = append(parts, cfgErr.Err.Error())
	}
	if len(parts) == 0 {
		return cfgErr.Error()
	}
	return strings.Join(parts, "; ")
}
