package middleware

import (
	"net/http"

	"github.com/mssola/useragent"

	"ireporter/pkg/requestcontext"
)

// Device parses the User-Agent header into a short "browser on OS" summary
// and stores it in the context. The identity handler logs it on login so
// operators can spot credential use from unfamiliar clients.
func Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("User-Agent")
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		ua := useragent.New(raw)
		name, _ := ua.Browser()
		summary := name
		if os := ua.OS(); os != "" {
			summary += " on " + os
		}
		ctx := requestcontext.WithDevice(r.Context(), summary)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
