package server

import (
	"net/http"
	"strconv"
	"strings"
)

// handlerFunc is a route handler. A returned error is rendered by the
// router according to its Kind.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

type route struct {
	name   string
	method string
	path   string
	prefix bool // match any path starting with path
	admin  bool
	handle handlerFunc
}

func (rt route) matches(method, path string) bool {
	if rt.method != method {
		return false
	}
	if rt.prefix {
		return strings.HasPrefix(path, rt.path)
	}
	return path == rt.path
}

// Router dispatches on normalized (method, path) pairs against a fixed table.
type Router struct {
	routes  []route
	guard   *Guard
	metrics *Metrics
}

// NormalizePath strips a single trailing slash from anything but the root.
func NormalizePath(p string) string {
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		return p[:len(p)-1]
	}
	return p
}

// NormalizeMethod serves HEAD with the GET handler.
func NormalizeMethod(m string) string {
	if m == http.MethodHead {
		return http.MethodGet
	}
	return m
}

// StatusIDFromPath returns the integer segment after "/status/", or 0 when it
// is missing or not an integer.
func StatusIDFromPath(path string) int64 {
	rest, ok := strings.CutPrefix(path, "/status/")
	if !ok {
		return 0
	}
	seg, _, _ := strings.Cut(rest, "/")
	id, err := strconv.ParseInt(seg, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func NewRouter(api *API, guard *Guard, metrics *Metrics) *Router {
	return &Router{
		guard:   guard,
		metrics: metrics,
		routes: []route{
			{name: "info", method: http.MethodGet, path: "/", handle: api.Info},
			{name: "status.list", method: http.MethodGet, path: "/status", handle: api.ListStatus},
			{name: "logs.list", method: http.MethodGet, path: "/logs", handle: api.ListLogs},
			{name: "logs.create", method: http.MethodPost, path: "/logs", admin: true, handle: api.CreateLog},
			{name: "status.upsert", method: http.MethodPost, path: "/status", admin: true, handle: api.UpsertStatus},
			{name: "status.delete", method: http.MethodDelete, path: "/status/", prefix: true, admin: true, handle: api.DeleteStatus},
			{name: "status.reorder", method: http.MethodPost, path: "/status/reorder", admin: true, handle: api.ReorderStatus},
		},
	}
}

// Match returns the route for an already normalized method and path.
func (rt *Router) Match(method, path string) (route, bool) {
	for _, r := range rt.routes {
		if r.matches(method, path) {
			return r, true
		}
	}
	return route{}, false
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := NormalizePath(r.URL.Path)
	method := NormalizeMethod(r.Method)
	info := requestInfoFrom(r.Context())

	if method == http.MethodOptions {
		info.setRoute("preflight")
		w.WriteHeader(http.StatusOK)
		return
	}

	matched, ok := rt.Match(method, path)
	if !ok {
		info.setRoute("not_found")
		writeNotFound(w)
		return
	}
	info.setRoute(matched.name)

	if matched.admin && !rt.guard.AuthorizedRequest(r) {
		rt.metrics.authFailure(matched.name)
		info.setErr(ErrUnauthorized)
		writeError(w, ErrUnauthorized)
		return
	}

	if err := matched.handle(w, r); err != nil {
		info.setErr(err)
		writeError(w, err)
	}
}
