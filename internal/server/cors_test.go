package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORSApply(t *testing.T) {
	c := CORS{Origins: []string{"http://localhost:3000"}, OriginSuffix: ".example.dev"}

	cases := []struct {
		origin string
		want   string
		vary   bool
	}{
		{"http://localhost:3000", "http://localhost:3000", true},
		{"https://preview.example.dev", "https://preview.example.dev", true},
		{"https://evil.test", "*", false},
		{"", "*", false},
	}
	for _, tc := range cases {
		t.Run(tc.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			h := http.Header{}
			c.Apply(h, req)
			assert.Equal(t, tc.want, h.Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tc.vary, h.Get("Vary") == "Origin")
			assert.Equal(t, "GET, POST, DELETE, OPTIONS", h.Get("Access-Control-Allow-Methods"))
			assert.Equal(t, "Content-Type, x-admin-token", h.Get("Access-Control-Allow-Headers"))
			assert.Equal(t, "86400", h.Get("Access-Control-Max-Age"))
		})
	}
}

func TestCORSOnErrorResponses(t *testing.T) {
	h := newTestHandler(t, NewMemoryStore())

	for _, rr := range []*httptest.ResponseRecorder{
		do(t, h, "GET", "/missing", "", false),
		do(t, h, "POST", "/logs", `{}`, false),
	} {
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	}
}
