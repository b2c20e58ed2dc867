// ABOUTME: Access log middleware: one log.Printf line per request, tagged with chi's request id.
// ABOUTME: Result lookups log the result id so a shared link can be traced back to its snapshot.
package web

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// accessLog must run after middleware.RequestID.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		began := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		line := "web: %s %s status=%d bytes=%d took=%s req=%s"
		args := []any{r.Method, r.URL.Path, status, ww.BytesWritten(), time.Since(began).Round(time.Microsecond), middleware.GetReqID(r.Context())}
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if id := rctx.URLParam("id"); id != "" {
				line += " result=%s"
				args = append(args, id)
			}
		}
		log.Printf(line, args...)
	})
}
