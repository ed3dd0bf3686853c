package server

import (
	"net/http"
	"slices"
	"strings"
)

// CORS decides the Access-Control-* headers attached to every response.
type CORS struct {
	Origins      []string // exact matches
	OriginSuffix string   // any origin ending in this also matches
}

func (c CORS) allowed(origin string) bool {
	if origin == "" {
		return false
	}
	if slices.Contains(c.Origins, origin) {
		return true
	}
	return c.OriginSuffix != "" && strings.HasSuffix(origin, c.OriginSuffix)
}

// Apply sets the CORS headers for r on h. Unknown origins get "*".
func (c CORS) Apply(h http.Header, r *http.Request) {
	origin := r.Header.Get("Origin")
	allow := "*"
	if c.allowed(origin) {
		allow = origin
		h.Add("Vary", "Origin")
	}
	h.Set("Access-Control-Allow-Origin", allow)
	h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, "+strings.ToLower(HeaderAdminToken))
	h.Set("Access-Control-Max-Age", "86400")
}

func (c CORS) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.Apply(w.Header(), r)
		next.ServeHTTP(w, r)
	})
}
