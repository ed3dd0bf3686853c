package server

import "net/http"

// HeaderAdminToken carries the shared admin secret on mutating requests.
const HeaderAdminToken = "X-Admin-Token"

// Guard decides whether a request carries the configured admin credential.
type Guard struct {
	token string
}

func NewGuard(token string) *Guard {
	return &Guard{token: token}
}

// Authorized compares credential to the configured token by exact equality.
// An unconfigured guard authorizes nothing.
func (g *Guard) Authorized(credential string) bool {
	if g == nil || g.token == "" {
		return false
	}
	return credential == g.token
}

func (g *Guard) AuthorizedRequest(r *http.Request) bool {
	return g.Authorized(r.Header.Get(HeaderAdminToken))
}
