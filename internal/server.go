package internal

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"foc-inventory-api/internal/actions"
	"foc-inventory-api/internal/auth"
	"foc-inventory-api/internal/handlers"
	"foc-inventory-api/internal/inventory"
	"foc-inventory-api/internal/metrics"
	"foc-inventory-api/internal/models"
	"foc-inventory-api/internal/sheets"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps are the collaborators the server routes to.
type Deps struct {
	Cache    *inventory.Cache
	Actions  *actions.Service
	Gate     *auth.Gate
	Sessions *auth.SessionManager
	Layout   sheets.Layout
	Location *time.Location
	// Metrics is nil when metrics are disabled.
	Metrics *metrics.Metrics
	Now     func() time.Time
}

type Server struct {
	Router   *chi.Mux
	Cache    *inventory.Cache
	Actions  *actions.Service
	Gate     *auth.Gate
	Sessions *auth.SessionManager
	Layout   sheets.Layout
	Location *time.Location
	Metrics  *metrics.Metrics
	now      func() time.Time
}

func NewServer(deps Deps) *Server {
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	s := &Server{
		Router:   chi.NewRouter(),
		Cache:    deps.Cache,
		Actions:  deps.Actions,
		Gate:     deps.Gate,
		Sessions: deps.Sessions,
		Layout:   deps.Layout,
		Location: deps.Location,
		Metrics:  deps.Metrics,
		now:      deps.Now,
	}

	s.Router.Use(middleware.RequestID)
	s.Router.Use(middleware.RealIP)
	s.Router.Use(middleware.Logger)
	s.Router.Use(middleware.Recoverer)

	// Mount metrics if enabled
	if s.Metrics != nil {
		s.Router.Use(s.Metrics.Middleware())
		s.Router.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}

	s.Router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	s.Router.Group(func(r chi.Router) {
		r.Use(auth.SessionMiddleware(s.Sessions))

		// Auth routes and actions answer anonymous callers themselves
		r.Post("/auth/pin", s.verifyPin)
		r.Post("/auth/logout", s.logout)
		r.Get("/auth/session", s.sessionStatus)
		r.Post("/actions/request", s.requestUnit)
		r.Post("/actions/return", s.returnUnit)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireSession)
			s.mountProtectedRoutes(r)
		})
	})

	return s
}

// mountProtectedRoutes mounts all routes that require a session
func (s *Server) mountProtectedRoutes(r chi.Router) {
	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", s.listInventory)
		r.Get("/summary", s.inventorySummary)
		r.Get("/activity", s.recentActivity)
		r.Get("/models", s.modelGroups)
		r.Get("/holders", s.holderGroups)
		r.Get("/campaigns", s.campaignGroups)
		r.Get("/returns", s.returnGroups)
		r.Post("/sync", s.syncInventory)

		export := handlers.NewExportHandler(s.Cache.Get, s.now)
		r.Get("/export.xlsx", export.ExportXLSX)
	})
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, message, code string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("encode response: %v", err)
	}
}

// snapshot loads the cached inventory, writing the error response itself
// when it fails.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (models.Snapshot, bool) {
	snap, err := s.Cache.Get(r.Context())
	if err == nil {
		return snap, true
	}
	if errors.Is(err, inventory.ErrNoInventoryData) {
		sendErrorResponse(w, "No inventory data found.", "NO_INVENTORY_DATA", http.StatusServiceUnavailable)
		return snap, false
	}
	log.Printf("inventory: load failed: %v", err)
	sendErrorResponse(w, "Failed to load inventory. Please try again.", "STORE_UNAVAILABLE", http.StatusBadGateway)
	return snap, false
}
