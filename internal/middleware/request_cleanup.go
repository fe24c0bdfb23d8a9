package middleware

import (
	"io"
	"net/http"
)

// DrainAndCloseRequest drains whatever the handler left in the request
// body and closes it, so the keep-alive connection can be reused. The
// diary mutation routes decode JSON bodies and may bail out before
// reading them fully.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.Copy(io.Discard, r.Body)
				_ = r.Body.Close()
			}
		})
	}
}
