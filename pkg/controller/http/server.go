package http

import (
	"net/http"
	"time"

	"github.com/bugnest/bugnest/pkg/usecase"
	"github.com/bugnest/bugnest/pkg/utils/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultUserHeader carries the acting user ID set by the authenticating proxy
const DefaultUserHeader = "X-Bugnest-User"

type Server struct {
	router     *chi.Mux
	uc         *usecase.UseCases
	userHeader string
}

type Options func(*Server)

// WithUserHeader changes the header the acting user ID is read from
func WithUserHeader(name string) Options {
	return func(s *Server) {
		if name != "" {
			s.userHeader = name
		}
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:     r,
		uc:         uc,
		userHeader: DefaultUserHeader,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	r.Use(actorMiddleware(s.userHeader))

	r.Route("/api", func(r chi.Router) {
		r.Get("/users", usersHandler(uc.Directory))

		r.Route("/mentions", func(r chi.Router) {
			r.Post("/suggest", suggestHandler(uc.Suggest))
			r.Post("/commit", commitHandler(uc.Directory))
			r.Post("/render", renderHandler())
			r.With(requireActor).Post("/process", processHandler(uc.Mention))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(requireActor)
			r.Get("/", feedHandler(uc.Notification))
			r.Post("/seen", markAllSeenHandler(uc.Notification))
			r.Post("/{id}/seen", markSeenHandler(uc.Notification))
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]any{
			"status":                  "ok",
			"directory_available":     uc.Directory.Available(),
			"notifications_supported": uc.NotificationsSupported(),
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
