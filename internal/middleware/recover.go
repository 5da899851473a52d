package middleware

import (
	"fmt"
	"log"
	"net/http"

	"github.com/codetrellis/userbase/internal/http/respond"
)

// Recover converts a panic anywhere downstream into a 500 whose body
// surfaces the failure text, matching the service's historical catch-all.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, v)
				respond.Message(w, http.StatusInternalServerError, false, fmt.Sprint(v))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
