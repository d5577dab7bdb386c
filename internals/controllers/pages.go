package controllers

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageController serves the thin HTML shells behind the gate. The real tool
// UIs live in the frontend; these exist so the page-level redirect targets
// resolve and the verification widget has a place to render.
type PageController struct {
	// SiteKey is the public key the challenge widget is rendered with
	SiteKey string
}

func NewPageController(siteKey string) *PageController {
	return &PageController{SiteKey: siteKey}
}

const verifyPageHTML = `<!DOCTYPE html>
<html lang="zh-CN">
<head><meta charset="utf-8"><title>人机验证</title>
<script src="https://challenges.cloudflare.com/turnstile/v0/api.js" async defer></script></head>
<body>
<h1>请完成人机验证</h1>
<div class="cf-turnstile" data-sitekey="%s" data-callback="onVerified"></div>
<script>
function onVerified(token) {
  fetch("/api/verify", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify({token: token})
  }).then(function(res) {
    if (res.ok) { window.location.href = %q; }
  });
}
</script>
</body>
</html>`

// VerifyPage renders the challenge widget. On success the page posts the
// token to /api/verify and forwards the browser to returnTo.
func (p *PageController) VerifyPage(c *gin.Context) {
	returnTo := c.Query("returnTo")
	if returnTo == "" || returnTo[0] != '/' {
		// Only same-site paths are valid forward targets.
		returnTo = "/"
	}

	page := fmt.Sprintf(verifyPageHTML, template.HTMLEscapeString(p.SiteKey), returnTo)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// ToolPage is the placeholder shell for gated tool pages.
func (p *PageController) ToolPage(title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := fmt.Sprintf("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>%s</title></head><body><h1>%s</h1></body></html>",
			template.HTMLEscapeString(title), template.HTMLEscapeString(title))
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
	}
}
