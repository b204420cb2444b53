package middleware

import (
	"net/http"
)

// DefaultMaxBodyBytes bounds uploaded graph and attack documents
const DefaultMaxBodyBytes = 10 << 20

// BodySizeLimit creates middleware that limits the size of incoming
// request bodies to maxBytes.
func BodySizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Reject early when Content-Length is declared
			if r.ContentLength > maxBytes {
				http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
				return
			}

			// Chunked bodies are cut off while reading
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

			next.ServeHTTP(w, r)
		})
	}
}
