package httpx

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"
)

// WebhookSecretHeader carries the shared secret regional runners echo back.
const WebhookSecretHeader = "X-Beacon-Secret"

// Gateway identity headers. The API sits behind an authenticating gateway
// which strips these from client traffic and injects the verified values.
const (
	UserIDHeader   = "X-User-Id"
	UserTierHeader = "X-User-Tier"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Identity is the caller identity forwarded by the gateway.
type Identity struct {
	UserID string
	Tier   string
}

// identityKey is an unexported context key type for the caller identity.
type identityKey struct{}

// WithIdentity returns a middleware that lifts the gateway identity headers
// into the request context. Requests without identity pass through; handlers
// that need an owner decide whether that is acceptable.
func WithIdentity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := Identity{
				UserID: strings.TrimSpace(r.Header.Get(UserIDHeader)),
				Tier:   strings.TrimSpace(r.Header.Get(UserTierHeader)),
			}
			if id.UserID != "" {
				r = r.WithContext(context.WithValue(r.Context(), identityKey{}, id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext returns the caller identity, if the gateway supplied one.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// RequireIdentity returns a middleware rejecting requests without a caller identity.
func RequireIdentity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := IdentityFromContext(r.Context()); !ok {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireWebhookSecret returns a middleware enforcing the runner shared secret.
// The comparison is constant time.
func RequireWebhookSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(WebhookSecretHeader)
			if secret == "" ||
				subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "invalid_secret",
					Err:     errors.New("invalid webhook secret"),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP extracts the requester address, preferring the gateway's
// X-Forwarded-For chain over the socket peer.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, found := strings.Cut(fwd, ","); found || first != "" {
			return strings.TrimSpace(first)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
