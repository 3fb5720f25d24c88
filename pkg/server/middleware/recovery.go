package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/getsentry/sentry-go"
)

// Recovery turns a handler panic into a 500 response. The panic is reported
// to Sentry when a client has been initialised.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			hub := sentry.CurrentHub().Clone()
			hub.Scope().SetRequest(r)
			hub.Recover(rec)

			log.Printf("panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
			writeError(w, http.StatusInternalServerError, "internal server error")
		}()
		next.ServeHTTP(w, r)
	})
}
