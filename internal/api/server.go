package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/rules"
	"github.com/codewithboateng/reactlift/internal/storage"
)

// Store is the minimal run/waiver contract the API needs.
type Store interface {
	ListRuns(limit, offset int) ([]storage.RunRow, error)
	LoadRun(id string) (ir.Run, error)
	LoadLatestRun() (ir.Run, error)
	ListViolations(runID, minSeverity, category string) ([]ir.Violation, error)

	ListWaivers(activeOnly bool) ([]storage.Waiver, error)
	CreateWaiver(ruleID, pathPrefix, contains, reason, createdBy string, expires time.Time) (int64, error)
	RevokeWaiver(id int64, by string) error
}

// UserStore is the auth/audit contract the API uses.
type UserStore interface {
	GetUserByUsername(string) (storage.User, string, error)
	CreateSession(int64, string, time.Time) error
	GetSession(string) (storage.User, error)
	DeleteSession(string) error
	LogAudit(username, action, resource string, meta map[string]any) error
}

type Server struct {
	DB             Store
	Users          UserStore
	Registry       *rules.Registry
	Logger         *slog.Logger
	Metrics        *Metrics
	AllowedOrigins []string
	SessionTTL     time.Duration
}

// Router builds the full route table. Read endpoints are open; waiver
// mutation and session introspection sit behind the cookie session.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.corsMiddleware)
	if s.Metrics != nil {
		r.Use(s.Metrics.Middleware)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet, http.MethodOptions)

	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/auth/logout", s.withAuth(s.handleLogout, "auth:logout")).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/me", s.withAuth(s.handleMe, "me")).Methods(http.MethodGet, http.MethodOptions)

	api.HandleFunc("/runs", s.handleListRuns).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/runs/latest", s.handleGetLatest).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/runs/{id}", s.handleGetRun).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/runs/{id}/violations", s.handleListViolations).Methods(http.MethodGet, http.MethodOptions)

	api.HandleFunc("/rules", s.handleRules).Methods(http.MethodGet, http.MethodOptions)

	api.HandleFunc("/waivers", s.withAuth(s.handleListWaivers, "waivers:list")).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/waivers", s.withAdmin(s.handleCreateWaiver, "waivers:create")).Methods(http.MethodPost)
	api.HandleFunc("/waivers/{id}/revoke", s.withAdmin(s.handleRevokeWaiver, "waivers:revoke")).Methods(http.MethodPost, http.MethodOptions)

	if s.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.err(w, http.StatusNotFound, "not found")
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := clamp(parseInt(q.Get("limit"), 20), 1, 200)
	offset := parseInt(q.Get("offset"), 0)

	rows, err := s.DB.ListRuns(limit, offset)
	if err != nil {
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": rows, "limit": limit, "offset": offset,
	})
}

func (s *Server) handleGetLatest(w http.ResponseWriter, r *http.Request) {
	run, err := s.DB.LoadLatestRun()
	if err != nil {
		s.err(w, http.StatusNotFound, "no runs")
		return
	}
	if s.Metrics != nil {
		s.Metrics.RunsServed.Inc()
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	run, err := s.DB.LoadRun(id)
	if err != nil {
		if errors.Is(err, storage.ErrRunNotFound) {
			s.err(w, http.StatusNotFound, "run not found")
			return
		}
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	if s.Metrics != nil {
		s.Metrics.RunsServed.Inc()
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleListViolations(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	q := r.URL.Query()

	min := strings.ToLower(strings.TrimSpace(q.Get("min_severity")))
	if min == "" {
		min = string(ir.SeverityLow)
	}
	if _, ok := ir.ParseSeverity(min); !ok {
		s.err(w, http.StatusBadRequest, "unknown min_severity: "+min)
		return
	}
	category := strings.ToLower(strings.TrimSpace(q.Get("category")))
	if category != "" && !ir.Category(category).Valid() {
		s.err(w, http.StatusBadRequest, "unknown category: "+category)
		return
	}

	items, err := s.DB.ListViolations(id, min, category)
	if err != nil {
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"run_id": id, "min_severity": min, "category": category, "items": items,
	})
}

func (s *Server) err(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
