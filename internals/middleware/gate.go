package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/turinhub/toolbox-sub001/internals/session"
)

// VerifyPagePath is where unverified browsers are sent to solve a challenge.
const VerifyPagePath = "/verify"

// RouteGateMiddleware is the per-request decision point. It classifies the
// requested path against the canonical rule table, consults the session
// manager, and either passes the request on, rejects it with 401 JSON, or
// redirects the browser to the verification page carrying the original path.
type RouteGateMiddleware struct {
	Sessions *session.Manager
	Rules    []Rule
}

// NewRouteGateMiddleware builds the gate over the given rule table; a nil
// table uses DefaultRules.
func NewRouteGateMiddleware(sessions *session.Manager, rules []Rule) *RouteGateMiddleware {
	if rules == nil {
		rules = DefaultRules
	}
	return &RouteGateMiddleware{
		Sessions: sessions,
		Rules:    rules,
	}
}

// Enforce is the gin handler applied to every route. It keeps no state across
// requests; each decision is a pure function of the path and the cookies.
func (m *RouteGateMiddleware) Enforce(c *gin.Context) {
	policy := Classify(m.Rules, c.Request.URL.Path)
	if policy == PolicyPublic {
		c.Next()
		return
	}

	if m.Sessions.IsVerified(c) {
		c.Next()
		return
	}

	switch policy {
	case PolicyProtectedAPI:
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Human verification required"})
	case PolicyProtectedPage:
		target := VerifyPagePath + "?returnTo=" + url.QueryEscape(c.Request.URL.Path)
		c.Redirect(http.StatusFound, target)
		c.Abort()
	}
}
