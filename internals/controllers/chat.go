package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/turinhub/toolbox-sub001/internals/middleware"
	"github.com/turinhub/toolbox-sub001/internals/models"
	"github.com/turinhub/toolbox-sub001/internals/upstream"
)

type ChatController struct {
	Chat    ChatCompleter
	AuditDB *gorm.DB
}

func NewChatController(chat ChatCompleter, auditDB *gorm.DB) *ChatController {
	return &ChatController{
		Chat:    chat,
		AuditDB: auditDB,
	}
}

type chatReqBody struct {
	Messages []upstream.Message `json:"messages"`
	Prompt   string             `json:"prompt"`
}

// Complete runs one chat exchange. The route gate already required a valid
// verification credential; chat does not consume the image quota. Either a
// full message history or a single prompt is accepted.
func (ch *ChatController) Complete(c *gin.Context) {
	var body chatReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	messages := body.Messages
	if len(messages) == 0 {
		if body.Prompt == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Messages or prompt is required"})
			return
		}
		messages = []upstream.Message{{Role: "user", Content: body.Prompt}}
	}

	start := time.Now()
	reply, err := ch.Chat.ChatCompletion(c.Request.Context(), messages)
	if err != nil {
		models.RecordUsage(ch.AuditDB, models.UsageEvent{
			RequestID:  c.GetString(middleware.RequestIDKey),
			Kind:       "chat",
			Outcome:    "upstream_error",
			DurationMs: time.Since(start).Milliseconds(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Chat is temporarily unavailable. Please try again later."})
		return
	}

	models.RecordUsage(ch.AuditDB, models.UsageEvent{
		RequestID:  c.GetString(middleware.RequestIDKey),
		Kind:       "chat",
		Outcome:    "ok",
		DurationMs: time.Since(start).Milliseconds(),
	})

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
