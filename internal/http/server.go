package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	applog "trashday/internal/log"
	"trashday/internal/middleware/security"
	"trashday/internal/middleware/trace"
	"trashday/internal/services"
	"trashday/internal/storage"
	appweb "trashday/web"
)

const (
	defaultRateLimit  = 120
	staticCacheMaxAge = 3600
	readyTimeout      = 5 * time.Second
)

// Config holds the HTTP server settings. Store is optional and adds a
// store check to /readyz.
type Config struct {
	Addr               string
	RateLimitPerMinute int
	Store              StoreInspector
}

// StoreInspector reports what the persistent dataset store holds.
type StoreInspector interface {
	Count(ctx context.Context) (int, error)
	Versions(ctx context.Context, limit int) ([]storage.DatasetVersion, error)
}

// Server serves the explorer pages, the JSON API and the operational
// endpoints.
type Server struct {
	http.Server
	explorer  *services.Explorer
	source    services.DatasetSource
	store     StoreInspector
	templates *template.Template
	logger    *applog.Logger

	traceMiddleware  *trace.Middleware
	securityDetector *security.Detector

	started      time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(cfg Config, explorer *services.Explorer, source services.DatasetSource, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	if cfg.RateLimitPerMinute < 1 {
		cfg.RateLimitPerMinute = defaultRateLimit
	}

	s := &Server{
		explorer:         explorer,
		source:           source,
		store:            cfg.Store,
		logger:           logger.WithComponent(applog.ComponentHTTP),
		traceMiddleware:  trace.NewMiddleware(logger),
		securityDetector: security.NewDetector(logger),
		started:          time.Now(),
	}

	t, err := parseTemplates()
	if err != nil {
		s.logger.Warn("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(cfg.RateLimitPerMinute),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func parseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"contains": contains,
		"display":  displayValue,
		"join":     strings.Join,
	}
	return template.New("pages").Funcs(funcs).ParseFS(appweb.TemplatesFS, "templates/*.html")
}

func (s *Server) routes(ratePerMinute int) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(s.traceMiddleware.Middleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.securityDetector.Middleware)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			NotFoundError("no such endpoint").Write(w)
			return
		}
		http.NotFound(w, r)
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.With(security.StaticAssetMiddleware(staticCacheMaxAge)).Handle("/static/*", static)
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(ratePerMinute, time.Minute))

		r.Get("/", s.handleAddressPage)
		r.Get("/zipcode", s.handleZipPage)
		r.Get("/district", s.handleDistrictPage)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/options/{column}", s.handleOptions)
			r.Get("/addresses", s.handleAddresses)
			r.Get("/addresses/map.zip", s.handleAddressMapExport)
			r.Get("/zipcodes", s.handleZipcodes)
			r.Get("/districts", s.handleDistricts)
			r.Get("/counts/{column}", s.handleCounts)
		})
	})

	return r
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
