package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"notify-audit/internal/audit"
	"notify-audit/internal/auth"
	"notify-audit/internal/observability/metrics"
	"notify-audit/internal/routing/application"
	"notify-audit/internal/zabbix"
)

// Handler provides the routing resolution HTTP endpoints.
type Handler struct {
	resolver *application.Resolver
	profiles zabbix.Profiles
	auditor  audit.Logger
	log      *zap.Logger
}

// NewHandler constructs a handler. auditor may be nil when auditing is
// disabled.
func NewHandler(resolver *application.Resolver, profiles zabbix.Profiles, auditor audit.Logger, log *zap.Logger) (*Handler, error) {
	if resolver == nil {
		return nil, errors.New("routing handler: nil resolver")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{resolver: resolver, profiles: profiles, auditor: auditor, log: log}, nil
}

// ServeHTTP handles /api/v1/routing and subroutes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/v1/routing/resolve":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleResolve(w, r)
	case "/api/v1/routing/profiles":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleProfiles(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type resolveRequest struct {
	Server          string `json:"server"`
	Profile         string `json:"profile"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	HostID          string `json:"hostid"`
	ShowUnavailable bool   `json:"show_unavailable"`
}

type resolveResponse struct {
	ReportID    string    `json:"report_id"`
	GeneratedAt time.Time `json:"generated_at"`
	application.Result
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusUnprocessableEntity)
		return
	}
	if err := req.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "xlsx" && format != "pdf" {
		http.Error(w, "format must be json, xlsx or pdf", http.StatusBadRequest)
		return
	}

	client, server, err := h.newClient(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	snapshot, err := fetchSnapshot(r.Context(), client, req)
	if err != nil {
		h.respondFetchError(w, err)
		metrics.ObserveResolve(metrics.ResultError, time.Since(started))
		return
	}

	result := h.resolver.Resolve(application.BuildSnapshot(snapshot), application.Options{
		ShowUnavailable: req.ShowUnavailable,
	})
	metrics.ObserveResolve(metrics.ResultSuccess, time.Since(started))
	metrics.AddActionsSkipped(len(result.SkippedActions))

	response := resolveResponse{
		ReportID:    uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Result:      result,
	}
	h.writeAudit(r, server, req.HostID, response)

	switch format {
	case "xlsx":
		data, err := BuildReportXLSX(response)
		if err != nil {
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}
		metrics.IncReportExport("xlsx")
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", attachmentName(response.ReportID, "xlsx"))
		_, _ = w.Write(data)
	case "pdf":
		data, err := BuildReportPDF(response)
		if err != nil {
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}
		metrics.IncReportExport("pdf")
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", attachmentName(response.ReportID, "pdf"))
		_, _ = w.Write(data)
	default:
		metrics.IncReportExport("json")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}
}

func (h *Handler) handleProfiles(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]string{"profiles": h.profiles.Names()})
}

func (r resolveRequest) validate() error {
	if r.HostID == "" {
		return errors.New("hostid is required")
	}
	if r.Username == "" || r.Password == "" {
		return errors.New("username and password are required")
	}
	if r.Server == "" && r.Profile == "" {
		return errors.New("server or profile is required")
	}
	return nil
}

// newClient builds a per-request client; connection parameters are never
// retained beyond the request. The returned server string identifies the
// target for audit purposes without credentials.
func (h *Handler) newClient(req resolveRequest) (*zabbix.Client, string, error) {
	observe := zabbix.WithObserver(func(method string, err error) {
		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultError
		}
		metrics.IncZabbixRequest(method, result)
	})

	if req.Profile != "" {
		profile, ok := h.profiles[req.Profile]
		if !ok {
			return nil, "", fmt.Errorf("unknown profile %q", req.Profile)
		}
		client, err := profile.NewClient(observe)
		if err != nil {
			return nil, "", err
		}
		return client, req.Profile, nil
	}

	client, err := zabbix.NewClient(req.Server, observe)
	if err != nil {
		return nil, "", err
	}
	return client, req.Server, nil
}

func fetchSnapshot(ctx context.Context, client *zabbix.Client, req resolveRequest) (*zabbix.Snapshot, error) {
	if err := client.Login(ctx, req.Username, req.Password); err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout(ctx) }()
	return client.FetchSnapshot(ctx, req.HostID)
}

func (h *Handler) respondFetchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, zabbix.ErrHostNotFound):
		http.Error(w, "host not found", http.StatusNotFound)
	case errors.Is(err, zabbix.ErrNotAuthorized):
		http.Error(w, "monitoring API rejected the credentials", http.StatusBadRequest)
	default:
		var apiErr *zabbix.APIError
		if errors.As(err, &apiErr) {
			http.Error(w, apiErr.Error(), http.StatusBadGateway)
			return
		}
		http.Error(w, "monitoring API unreachable", http.StatusBadGateway)
	}
}

// writeAudit records the request without credentials; failures are logged
// and never fail the response.
func (h *Handler) writeAudit(r *http.Request, server, hostID string, response resolveResponse) {
	if h.auditor == nil {
		return
	}
	metadata, _ := json.Marshal(map[string]any{
		"report_id":  response.ReportID,
		"triggers":   response.TriggerCount(),
		"messages":   response.MessageCount(),
		"recipients": response.RecipientCount(),
		"skipped":    len(response.SkippedActions),
	})
	entry := audit.Entry{
		Actor:     actorFromRequest(r),
		Role:      roleFromRequest(r),
		Action:    audit.ActionResolve,
		HostID:    hostID,
		Server:    server,
		Metadata:  metadata,
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
	if err := h.auditor.Log(r.Context(), entry); err != nil {
		h.log.Warn("audit write failed", zap.Error(err))
	}
}

func actorFromRequest(r *http.Request) string {
	return auth.SubjectFromContext(r.Context())
}

func roleFromRequest(r *http.Request) string {
	return string(auth.RoleFromContext(r.Context()))
}

func attachmentName(reportID, ext string) string {
	return fmt.Sprintf("attachment; filename=%q", "routing-report-"+reportID+"."+ext)
}
