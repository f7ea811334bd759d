// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MemberChat Contributors

package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/oklog/ulid/v2"

	"github.com/memberchat/memberchat/internal/auth"
	"github.com/memberchat/memberchat/internal/logging"
	"github.com/memberchat/memberchat/internal/observability"
)

// RequestID assigns a ULID to every request, stores it on the context
// for log correlation, and echoes it in the X-Request-ID header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ulid.Make().String()
		ctx := logging.WithRequestID(r.Context(), id)
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Instrument logs each completed request and counts it in Prometheus.
// metrics may be nil when the observability server is disabled.
func Instrument(logger *slog.Logger, metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			if metrics != nil {
				route := chi.RouteContext(r.Context()).RoutePattern()
				if route == "" {
					route = r.URL.Path
				}
				metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
			}

			logger.InfoContext(r.Context(), "request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}

// RequireMember authenticates the request's bearer token and resolves
// it to a directory member before the wrapped handler runs. The prefix
// match is exact: "Bearer " with a single space, case-sensitive.
func RequireMember(codec *auth.Codec, directory *auth.Directory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				respondDetail(w, http.StatusUnauthorized, "invalid or missing authorization token")
				return
			}

			claims, err := codec.Verify(strings.TrimSpace(token))
			if err != nil {
				respondDetail(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			member, found := directory.Find(claims.Username)
			if !found {
				respondDetail(w, http.StatusUnauthorized, "member not found")
				return
			}

			next.ServeHTTP(w, r.WithContext(withMember(r.Context(), member)))
		})
	}
}
