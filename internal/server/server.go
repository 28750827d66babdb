// internal/server/server.go
package server

import (
	"context"
	"net/http"
	"net/http/pprof"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gravity-webhook/internal/common/config"
	"gravity-webhook/internal/common/logger"
	"gravity-webhook/internal/forms"
)

// Server is the HTTP front of the service. It mounts one webhook handler per
// known form variant plus the operational endpoints.
type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

// New builds the router and server. The bare /api/webhook route serves the
// registration form; each variant is also addressable at
// /api/webhook/{variant}.
func New(cfg *config.Config, resolver Resolver, writer Writer, log logger.Logger) *Server {
	mux := http.NewServeMux()

	defaultHandler := NewWebhookHandler(forms.RegistrationSchema, resolver, writer, cfg, log)
	mux.Handle("/api/webhook", defaultHandler)

	for _, variant := range forms.Variants() {
		schema, _ := forms.SchemaForForm(variant)
		mux.Handle("/api/webhook/"+variant, NewWebhookHandler(schema, resolver, writer, cfg, log))
	}

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Server.Address,
			Handler:      mux,
			ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
			WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
		},
		logger: log,
	}
}

// Start blocks serving until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", map[string]interface{}{
		"address": s.httpServer.Addr,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
