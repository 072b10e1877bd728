package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"workconnect/pkg/apierror"
)

// Recovery turns a panic into a 500 envelope. Details and the stack are
// only included when showDetails is set.
func Recovery(showDetails bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				stack := string(debug.Stack())
				slog.Error("panic recovered", "error", fmt.Sprintf("%v", recovered), "path", r.URL.Path, "stack", stack)

				apiErr := apierror.Internal(fmt.Sprintf("%v", recovered))
				var data any
				if showDetails {
					data = map[string]string{"error": apiErr.Details, "stack": stack}
				}
				writeEnvelope(w, apiErr.HTTPStatus, apiErr.Message, data)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
