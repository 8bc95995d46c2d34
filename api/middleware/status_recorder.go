package middleware

import "net/http"

// statusRecorder wraps an http.ResponseWriter to capture the status code
// written by downstream handlers. A zero status means WriteHeader was never
// called and the response defaulted to 200 OK.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
