package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// HealthPath requests are logged at trace level
const HealthPath = "/healthz"

// Logger stores a logger tagged with the chi request id and the remote address
// in the request context, and logs the request when it completes. Handlers log
// through zerolog.Ctx so everything a websocket session does carries the id.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := log.With().
			Str("http_request_id", middleware.GetReqID(r.Context())).
			Str("remote", r.RemoteAddr).
			Logger()
		r = r.WithContext(logger.WithContext(r.Context()))

		defer func() {
			level := zerolog.DebugLevel
			if r.URL.Path == HealthPath {
				level = zerolog.TraceLevel
			}
			logger.WithLevel(level).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("Request")
		}()

		next.ServeHTTP(ww, r)
	})
}

// AllowSubnet rejects connections whose direct source address (RemoteAddr,
// not a forwarded header) is outside allowedNet. A nil allowedNet allows all.
func AllowSubnet(allowedNet *net.IPNet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if allowedNet == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ip := remoteIP(r.RemoteAddr); ip != nil && allowedNet.Contains(ip) {
				next.ServeHTTP(w, r)
				return
			}

			log.Warn().
				Str("remote_addr", r.RemoteAddr).
				Str("allowed_subnet", allowedNet.String()).
				Str("http_request_id", middleware.GetReqID(r.Context())).
				Msg("Connection rejected: source address not in allowed subnet")
			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}

// remoteIP parses "host:port" or a bare IP. It returns nil when neither parses.
func remoteIP(remoteAddr string) net.IP {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	return net.ParseIP(host)
}
