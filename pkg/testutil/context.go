package testutil

import (
	"net/http"
	"time"

	"transitbook/pkg/requestcontext"
)

// WithRequestTime pins the request-scoped time, as the RequestTime
// middleware would.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
