package api

import "net/http"

// Limiter returns middleware allowing at most n requests to be handled
// at once. Further requests wait for a slot. n < 1 disables the limit.
func Limiter(n int) func(http.Handler) http.Handler {
	counter := make(chan struct{}, max(n, 0))
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if n < 1 {
				h.ServeHTTP(w, r)
				return
			}
			select {
			case counter <- struct{}{}:
			case <-r.Context().Done():
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			defer func() { <-counter }()

			h.ServeHTTP(w, r)
		})
	}
}
