package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"energy_dashboard/internal/energy"
	"energy_dashboard/internal/model"
)

// Server exposes the model's read API over REST for non-WebSocket
// consumers and file export.
type Server struct {
	model *energy.Model
	log   *zap.Logger
}

func NewServer(m *energy.Model, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{model: m, log: log}
}

// Router builds the full route table, including the WebSocket endpoint and
// Prometheus metrics, wrapped in CORS middleware.
func (s *Server) Router(wsHandler http.Handler, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	r.HandleFunc("/api/households", s.handleHouseholds).Methods(http.MethodGet)
	r.HandleFunc("/api/alerts", s.handleAlerts).Methods(http.MethodGet)
	r.HandleFunc("/api/report/{period}", s.handleReport).Methods(http.MethodGet)
	r.HandleFunc("/api/export", s.handleExport).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.Handle("/ws", wsHandler)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	return c.Handler(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.model.CurrentData())
}

func (s *Server) handleHouseholds(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.model.HouseholdData())
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.model.AlertsData())
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	period := model.Period(mux.Vars(r)["period"])
	report, ok := s.model.ReportData(period)
	if !ok {
		http.Error(w, fmt.Sprintf("unknown period %q", period), http.StatusBadRequest)
		return
	}
	s.writeJSON(w, report)
}

// handleExport serves the full dump with download headers.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="energy-export.json"`)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.model.ExportData()); err != nil {
		s.log.Error("encoding export", zap.Error(err))
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encoding response", zap.Error(err))
	}
}
