package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/turinhub/toolbox-sub001/internals/middleware"
	"github.com/turinhub/toolbox-sub001/internals/models"
	"github.com/turinhub/toolbox-sub001/internals/quota"
)

type GenerateController struct {
	Verifier ChallengeVerifier
	Ledger   quota.Ledger
	Images   ImageGenerator
	AuditDB  *gorm.DB
}

func NewGenerateController(verifier ChallengeVerifier, ledger quota.Ledger, images ImageGenerator, auditDB *gorm.DB) *GenerateController {
	return &GenerateController{
		Verifier: verifier,
		Ledger:   ledger,
		Images:   images,
		AuditDB:  auditDB,
	}
}

type generateReqBody struct {
	Prompt string `json:"prompt" binding:"required"`
	Token  string `json:"token" binding:"required"`
	Steps  int    `json:"steps"`
}

// Generate performs one quota-consuming image generation. Each call demands a
// fresh challenge token on top of the page-level credential, so a scripted
// client cannot loop on a single human check. The order is deliberate: quota
// is checked before the upstream call so a capped client never costs an
// upstream request, and the new count is committed only after the upstream
// succeeded so a failed generation is never charged.
func (g *GenerateController) Generate(c *gin.Context) {
	var body generateReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt and token are required"})
		return
	}

	if !g.Verifier.Verify(c.Request.Context(), body.Token, c.ClientIP()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Human verification failed. Please try again."})
		return
	}

	if g.Ledger.HasReachedLimit(c) {
		g.record(c, "generate", "rejected", 0)
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":                "今日免费生成次数已用完，明天再来吧 (Daily free limit reached, available again tomorrow)",
			"totalGenerations":     g.Ledger.Cap(),
			"remainingGenerations": 0,
		})
		return
	}

	next := g.Ledger.NextCount(c)

	start := time.Now()
	result, err := g.Images.GenerateImage(c.Request.Context(), body.Prompt, body.Steps)
	if err != nil {
		g.record(c, "generate", "upstream_error", time.Since(start).Milliseconds())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Image generation failed. Please try again later."})
		return
	}

	g.Ledger.Commit(c, next)
	g.record(c, "generate", "ok", time.Since(start).Milliseconds())

	c.JSON(http.StatusOK, gin.H{
		"image":                result.B64JSON,
		"remainingGenerations": g.Ledger.Cap() - next,
	})
}

func (g *GenerateController) record(c *gin.Context, kind, outcome string, durationMs int64) {
	models.RecordUsage(g.AuditDB, models.UsageEvent{
		RequestID:  c.GetString(middleware.RequestIDKey),
		Kind:       kind,
		Outcome:    outcome,
		DurationMs: durationMs,
	})
}
