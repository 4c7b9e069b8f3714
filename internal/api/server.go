package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/pbaille/moodlog/internal/aggregate"
	"github.com/pbaille/moodlog/internal/journal"
)

// UserHeader carries the authenticated user's id. Authentication itself
// happens upstream.
const UserHeader = "X-User-ID"

// Options configures a Server.
type Options struct {
	Addr           string
	AllowedOrigins []string
	WindowDays     int
}

// Server handles HTTP requests for the mood journal API
type Server struct {
	svc  *journal.Service
	log  zerolog.Logger
	opts Options
}

// New creates a new API server
func New(svc *journal.Service, log zerolog.Logger, opts Options) *Server {
	if opts.WindowDays <= 0 {
		opts.WindowDays = aggregate.DefaultWindowDays
	}
	return &Server{svc: svc, log: log.With().Str("component", "api").Logger(), opts: opts}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", UserHeader},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)

	r.Group(func(r chi.Router) {
		r.Use(requireUser)

		r.Post("/analyze", s.analyze)

		r.Route("/entries", func(r chi.Router) {
			r.Get("/", s.listEntries)
			r.Post("/", s.createEntry)
			r.Get("/{id}", s.getEntry)
			r.Patch("/{id}", s.updateEntry)
			r.Delete("/{id}", s.deleteEntry)
		})

		r.Get("/days/{date}/entries", s.dayEntries)

		r.Route("/insights", func(r chi.Router) {
			r.Get("/trend", s.trend)
			r.Get("/distribution", s.distribution)
			r.Get("/calendar", s.calendar)
			r.Get("/stats", s.stats)
			r.Get("/dashboard", s.dashboard)
		})

		r.Get("/export.csv", s.exportCSV)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.opts.Addr).Msg("starting server")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
