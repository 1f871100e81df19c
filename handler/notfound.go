package handler

import (
	"fmt"
	"net/http"
)

// NotFound answers unmatched routes with 404 and a message naming the path.
func NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = WriteJSON(w, http.StatusNotFound, Failure(fmt.Sprintf("Route not found: %s", r.URL.Path)))
	}
}

// MethodNotAllowed answers a known path requested with an unsupported method.
func MethodNotAllowed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = WriteJSON(w, http.StatusMethodNotAllowed,
			Failure(fmt.Sprintf("Method %s not allowed on %s", r.Method, r.URL.Path)))
	}
}
