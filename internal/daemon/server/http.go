package server

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/improbable-eng/grpc-web/go/grpcweb"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kruzic-io/kruzic/internal/api/platformv1"
)

// Handler returns the HTTP surface: grpc-web for browser games, /metrics
// and /admin/*. It accepts cleartext HTTP/2.
func (s *Server) Handler() http.Handler {
	web := grpcweb.WrapServer(s.grpcServer,
		grpcweb.WithOriginFunc(func(string) bool { return true }),
	)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	s.adminRoutes(r)

	root := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if web.IsGrpcWebRequest(req) || web.IsAcceptableGrpcCorsRequest(req) {
			web.ServeHTTP(w, req)
			return
		}
		r.ServeHTTP(w, req)
	})
	return h2c.NewHandler(root, &http2.Server{})
}

func (s *Server) adminRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/state", s.handleGetState)
		r.Post("/reset", s.handleReset)
		r.Get("/faults", s.handleListFaults)
		r.Post("/fault/{method}", s.handleInjectFault)
		r.Delete("/fault/{method}", s.handleRemoveFault)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.store.Snapshot(r.Context())
	if err != nil {
		s.logger.Error("snapshot failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"players":    s.players.Len(),
		"ready":      s.ReadyCount(),
		"namespaces": snapshot,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.faults.Reset()
	s.logger.Info("state reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleListFaults(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.faults.All())
}

func (s *Server) handleInjectFault(w http.ResponseWriter, r *http.Request) {
	method := chi.URLParam(r, "method")
	if !slices.Contains(platformv1.Methods, method) {
		writeError(w, http.StatusNotFound, "unknown method "+method)
		return
	}

	var fault Fault
	if err := json.NewDecoder(r.Body).Decode(&fault); err != nil {
		writeError(w, http.StatusBadRequest, "invalid fault config: "+err.Error())
		return
	}
	s.faults.Set(method, fault)
	s.logger.Info("fault injected", zap.String("method", method), zap.String("message", fault.Message))
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "injected",
		"method": method,
	})
}

func (s *Server) handleRemoveFault(w http.ResponseWriter, r *http.Request) {
	method := chi.URLParam(r, "method")
	if s.faults.Remove(method) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "removed", "method": method})
		return
	}
	writeError(w, http.StatusNotFound, "no fault registered for "+method)
}
