package middleware

import (
	"log"
	"net/http"
)

// SecretMiddleware guards trigger endpoints with a shared secret passed
// as a query parameter. The only legitimate caller is the external
// scheduler.
func SecretMiddleware(secret string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if secret == "" {
			log.Println("CRON_SECRET is not set")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if r.URL.Query().Get("secret") != secret {
			http.Error(w, `{"error": "unauthorized: valid secret required"}`, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
