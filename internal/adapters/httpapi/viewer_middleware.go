package httpapi

import (
	"net/http"
	"strconv"
	"strings"
)

// PrivilegedHeader flags the request viewer as the site owner. The header is
// set by the fronting proxy after authentication; this service trusts it and
// only consumes the boolean (ownership of enforcement lives upstream).
const PrivilegedHeader = "X-Viewer-Privileged"

// NewViewerMiddleware stores the viewer's privileged flag in request context.
func NewViewerMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(PrivilegedHeader))
			privileged := false
			if raw != "" {
				if v, err := strconv.ParseBool(raw); err == nil {
					privileged = v
				}
			}
			next.ServeHTTP(w, r.WithContext(WithPrivileged(r.Context(), privileged)))
		})
	}
}
