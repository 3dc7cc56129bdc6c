package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"cartshare/internal/metrics"
	"cartshare/internal/models"
	"cartshare/internal/repository"
	"cartshare/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ActorContextKey carries the resolved acting user.
	ActorContextKey ContextKey = "actor"

	// ActorHeader is set by the fronting auth gateway after it has
	// authenticated the request. This service trusts it; session and
	// credential mechanics live outside.
	ActorHeader = "X-Actor-ID"
)

// Middleware holds dependencies for middleware functions
type Middleware struct {
	userRepo *repository.UserRepository
	limiter  *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(userRepo *repository.UserRepository, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		userRepo: userRepo,
		limiter:  limiter,
	}
}

// RequireActor resolves the acting user from the gateway header and puts it
// on the request context. Requests without a resolvable actor get 401.
func (m *Middleware) RequireActor(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(ActorHeader)
		if raw == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing actor identity"})
			return
		}

		actorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid actor identity"})
			return
		}

		actor, err := m.userRepo.GetUserByID(actorID)
		if err != nil {
			log.WithError(err).Error("Failed to resolve actor")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
			return
		}
		if actor == nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unknown actor"})
			return
		}

		ctx := context.WithValue(r.Context(), ActorContextKey, actor)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit rejects callers that exceed the configured request budget.
// Authenticated callers are keyed by actor id, anonymous ones by client IP.
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(ActorHeader)
		if key == "" {
			key = security.GetClientIP(r)
		}
		if !m.limiter.Allow(key) {
			metrics.RateLimited.Inc()
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many requests"})
			return
		}
		next(w, r)
	}
}

// GetActorFromContext retrieves the acting user from the request context
func GetActorFromContext(ctx context.Context) *models.User {
	actor, ok := ctx.Value(ActorContextKey).(*models.User)
	if !ok {
		return nil
	}
	return actor
}

// statusRecorder captures the response status for logging and metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// Logging middleware logs HTTP requests and feeds the duration histogram
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		metrics.HTTPDuration.WithLabelValues(
			r.Method,
			r.URL.Path,
			strconv.Itoa(rec.status),
		).Observe(elapsed.Seconds())

		log.WithFields(log.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   elapsed,
			"remote":     security.GetClientIP(r),
		}).Info("Request handled")
	})
}
