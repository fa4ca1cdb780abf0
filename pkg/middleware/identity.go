package middleware

import (
	"net/http"

	"review-service/pkg/utils"

	"go.uber.org/zap"
)

// RequesterHeader carries the identity the gateway resolved after verifying
// the caller's token. This service trusts it as-is; authentication happens
// upstream.
const RequesterHeader = "X-Requester-Id"

// Identity lifts the gateway-resolved requester id into the request context.
// Requests without the header proceed anonymously.
func Identity(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requesterID := r.Header.Get(RequesterHeader)
			if requesterID == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := utils.SetRequesterContext(r.Context(), requesterID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireIdentity rejects requests the gateway did not attach an identity to.
func RequireIdentity(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := utils.GetRequesterIDFromContext(r.Context()); !ok {
				logger.Warn("Request without requester identity",
					zap.String("path", r.URL.Path),
					zap.String("method", r.Method),
				)
				utils.ResponseUnauthorized(w, "Missing requester identity")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminHeader carries the shared secret for the seed/bulk-import endpoints.
const AdminHeader = "X-Admin-Token"

// Admin rejects requests whose admin token does not match the configured one.
func Admin(token string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" || r.Header.Get(AdminHeader) != token {
				logger.Warn("Admin endpoint access denied",
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr),
				)
				utils.ResponseForbidden(w, "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
