package http

import (
	"net/http"

	"github.com/bugnest/bugnest/pkg/domain/model"
	"github.com/bugnest/bugnest/pkg/domain/model/auth"
	"github.com/bugnest/bugnest/pkg/utils/logging"
	"github.com/go-chi/chi/v5/middleware"
)

// actorMiddleware puts the acting user from header into the request context together with a
// request scoped logger. Requests without the header continue anonymously.
func actorMiddleware(header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := logging.Default().With("request_id", middleware.GetReqID(ctx))

			if id := r.Header.Get(header); id != "" {
				ctx = auth.ContextWithUserID(ctx, model.UserID(id))
				logger = logger.With("user_id", id)
			}

			ctx = logging.With(ctx, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireActor rejects requests that carry no acting user
func requireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := auth.UserIDFromContext(r.Context()); err != nil {
			writeError(w, r, http.StatusUnauthorized, "acting user is required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
