package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turinhub/toolbox-sub001/internals/config"
	"github.com/turinhub/toolbox-sub001/internals/session"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want Policy
	}{
		{path: "/", want: PolicyPublic},
		{path: "/sql-formatter", want: PolicyPublic},
		{path: "/verify", want: PolicyPublic},
		{path: "/api/verify", want: PolicyPublic},
		{path: "/api/quota", want: PolicyPublic},
		{path: "/api/generate", want: PolicyProtectedAPI},
		{path: "/api/chat", want: PolicyProtectedAPI},
		{path: "/api/anything-else", want: PolicyProtectedAPI},
		{path: "/image-generator", want: PolicyProtectedPage},
		{path: "/chat", want: PolicyProtectedPage},
		{path: "/static/logo.svg", want: PolicyPublic},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(DefaultRules, tt.path))
		})
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	rules := []Rule{
		{Prefix: "/api/open", Policy: PolicyPublic},
		{Prefix: "/api", Policy: PolicyProtectedAPI},
	}
	assert.Equal(t, PolicyPublic, Classify(rules, "/api/open/thing"))
	assert.Equal(t, PolicyProtectedAPI, Classify(rules, "/api/closed"))
	assert.Equal(t, PolicyPublic, Classify(rules, "/elsewhere"))
}

func gateRouter(t *testing.T) (*gin.Engine, *session.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := session.NewManager(&config.CookieConfig{}, "gate-test-secret", time.Hour)
	gate := NewRouteGateMiddleware(sessions, nil)

	r := gin.New()
	r.Use(gate.Enforce)
	r.GET("/api/quota", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	r.POST("/api/generate", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	r.GET("/image-generator", func(c *gin.Context) { c.String(200, "tool") })
	return r, sessions
}

func validCredential(t *testing.T, sessions *session.Manager) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/verify", nil)
	require.NoError(t, sessions.Issue(c))

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == session.CookieName {
			return cookie
		}
	}
	t.Fatal("credential cookie missing")
	return nil
}

func TestGateAllowsPublicPath(t *testing.T) {
	r, _ := gateRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/quota", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGateRejectsProtectedAPIWithJSON(t *testing.T) {
	r, _ := gateRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/generate", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, w.Body.String(), "error")
}

func TestGateRedirectsProtectedPageWithReturnTo(t *testing.T) {
	r, _ := gateRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/image-generator", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/verify?returnTo=%2Fimage-generator", w.Header().Get("Location"))
}

func TestGatePassesVerifiedClient(t *testing.T) {
	r, sessions := gateRouter(t)
	cookie := validCredential(t, sessions)

	req := httptest.NewRequest(http.MethodPost, "/api/generate", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/image-generator", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
