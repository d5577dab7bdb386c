package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/turinhub/toolbox-sub001/internals/config"
	"github.com/turinhub/toolbox-sub001/internals/controllers"
	"github.com/turinhub/toolbox-sub001/internals/middleware"
	"github.com/turinhub/toolbox-sub001/internals/quota"
	"github.com/turinhub/toolbox-sub001/internals/session"
	"github.com/turinhub/toolbox-sub001/internals/upstream"
	"github.com/turinhub/toolbox-sub001/internals/verifier"
)

// Dependencies collects everything the router needs. Tests substitute stub
// verifiers and providers here; SetupRouter fills it from the environment.
type Dependencies struct {
	Sessions *session.Manager
	Ledger   quota.Ledger
	Verifier controllers.ChallengeVerifier
	Images   controllers.ImageGenerator
	Chat     controllers.ChatCompleter
	AuditDB  *gorm.DB
	SiteKey  string
	Rules    []middleware.Rule
}

// NewRouter wires the gate, the controllers and the route table.
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.Default()

	gate := middleware.NewRouteGateMiddleware(deps.Sessions, deps.Rules)
	r.Use(middleware.RequestID, gate.Enforce)

	verifyCtrl := controllers.NewVerifyController(deps.Verifier, deps.Sessions)
	generateCtrl := controllers.NewGenerateController(deps.Verifier, deps.Ledger, deps.Images, deps.AuditDB)
	chatCtrl := controllers.NewChatController(deps.Chat, deps.AuditDB)
	quotaCtrl := controllers.NewQuotaController(deps.Ledger)
	statsCtrl := controllers.NewStatsController(deps.AuditDB)
	pageCtrl := controllers.NewPageController(deps.SiteKey)

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "active",
			"message": "Toolbox gate API is running",
		})
	})

	api := r.Group("/api")
	{
		api.POST("/verify", verifyCtrl.Verify)
		api.POST("/generate", generateCtrl.Generate)
		api.POST("/chat", chatCtrl.Complete)
		api.GET("/quota", quotaCtrl.Remaining)
		api.GET("/stats", statsCtrl.Summary)
	}

	r.GET("/verify", pageCtrl.VerifyPage)
	r.GET("/image-generator", pageCtrl.ToolPage("AI 图片生成"))
	r.GET("/chat", pageCtrl.ToolPage("AI 对话"))

	return r
}

// SetupRouter assembles the production dependency set from the environment.
func SetupRouter(auditDB *gorm.DB) *gin.Engine {
	cookieConfig := &config.CookieConfig{
		Domain:   config.GetEnvAsStr("COOKIE_DOMAIN", ""),
		IsSecure: config.GetEnvAsBool("SECURE_COOKIE", true),
		HttpOnly: true, // Always HttpOnly so page scripts cannot read gate state
	}

	sessions := session.NewManager(
		cookieConfig,
		config.GetEnv("SESSION_SECRET_KEY"),
		time.Duration(config.GetEnvAsInt("SESSION_TTL_MINUTES", 60, true))*time.Minute,
	)

	ledger := quota.NewCookieLedger(
		cookieConfig,
		config.GetEnvAsInt("DAILY_GENERATION_CAP", quota.DefaultCap, true),
	)

	turnstile := verifier.NewTurnstileVerifier(
		config.GetEnv("TURNSTILE_SECRET_KEY"),
		config.GetEnvAsStr("TURNSTILE_VERIFY_URL", verifier.DefaultVerifyURL),
		time.Duration(config.GetEnvAsInt("VERIFY_TIMEOUT_SECONDS", 10, true))*time.Second,
	)

	provider := upstream.NewClient(
		config.GetEnvAsStr("AI_API_BASE", "https://api.siliconflow.cn"),
		config.GetEnv("AI_API_KEY"),
		config.GetEnvAsStr("AI_IMAGE_MODEL", "stabilityai/stable-diffusion-3-5-large"),
		config.GetEnvAsStr("AI_CHAT_MODEL", "deepseek-ai/DeepSeek-V3"),
		time.Duration(config.GetEnvAsInt("UPSTREAM_TIMEOUT_SECONDS", 60, true))*time.Second,
	)

	return NewRouter(Dependencies{
		Sessions: sessions,
		Ledger:   ledger,
		Verifier: turnstile,
		Images:   provider,
		Chat:     provider,
		AuditDB:  auditDB,
		SiteKey:  config.GetEnvAsStr("TURNSTILE_SITE_KEY", ""),
		Rules:    middleware.DefaultRules,
	})
}
