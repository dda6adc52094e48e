package httpx

import (
	"log/slog"
	"net/http"

	"github.com/feru-app/beacon/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Audits   *service.AuditService
	Webhooks *service.WebhookService
	Monitors *service.MonitorService

	// WebhookSecret is the shared secret regional runners must echo back.
	WebhookSecret string
	Logger        *slog.Logger
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	auditHandlers := &AuditHandlers{Svc: services.Audits}
	webhookHandlers := &WebhookHandlers{Svc: services.Webhooks}
	monitorHandlers := &MonitorHandlers{Svc: services.Monitors}

	registerAuditRoutes(mux, auditHandlers)
	registerWebhookRoutes(mux, webhookHandlers, services.WebhookSecret)
	registerMonitorRoutes(mux, monitorHandlers)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var handler http.Handler = mux
	handler = WithIdentity()(handler)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}

func registerAuditRoutes(mux *http.ServeMux, h *AuditHandlers) {
	mux.HandleFunc("POST /api/audits", h.Create)
	mux.HandleFunc("GET /api/audits", h.List)
	mux.HandleFunc("GET /api/audits/{id}", h.GetByID)
}

func registerWebhookRoutes(mux *http.ServeMux, h *WebhookHandlers, secret string) {
	guard := RequireWebhookSecret(secret)
	mux.Handle("POST /api/webhooks/results", guard(http.HandlerFunc(h.Receive)))
}

func registerMonitorRoutes(mux *http.ServeMux, h *MonitorHandlers) {
	mux.HandleFunc("POST /api/monitors", h.Create)
	mux.HandleFunc("GET /api/monitors", h.List)
	mux.HandleFunc("DELETE /api/monitors/{id}", h.Delete)
	mux.HandleFunc("POST /api/monitors/{id}/trigger", h.Trigger)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
