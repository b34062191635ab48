package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/davegarvey/countries-api/internal/metrics"
)

// RouterOptions carries the transport settings of the router.
type RouterOptions struct {
	AllowedOrigins []string
	CORSMaxAge     int
	Disabled       bool
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(h *CountryHandler, idx *IndexHandler, m *metrics.Metrics, logger *zap.Logger, opts RouterOptions) chi.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	// ---- Global Middleware ----
	r.Use(middleware.Recoverer)
	r.Use(RequestID)
	if m != nil {
		r.Use(m.Middleware)
	}
	r.Use(AccessLog(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         opts.CORSMaxAge,
	}))

	// Operational endpoints stay up while the API is disabled.
	r.Get("/health", handleHealth)
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(KillSwitch(opts.Disabled))
		r.Get("/", idx.ServeHTTP)
		r.Get("/*", h.ServeQuery)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", "GET, OPTIONS")
		respondJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"}, logger)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusNotFound, errorResponse{
			Error:   "Endpoint not found",
			Message: "Try GET / for API documentation",
		}, logger)
	})

	return r
}
