package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/turinhub/toolbox-sub001/internals/models"
)

type StatsController struct {
	AuditDB *gorm.DB
}

func NewStatsController(auditDB *gorm.DB) *StatsController {
	return &StatsController{AuditDB: auditDB}
}

// Summary exposes the audit trail read-only: total events and today's
// successful generations. With auditing disabled it reports so instead of
// failing, since the feature is optional.
func (s *StatsController) Summary(c *gin.Context) {
	if s.AuditDB == nil {
		c.JSON(http.StatusOK, gin.H{"auditing": false})
		return
	}

	var total, today int64
	midnight := time.Now().Truncate(24 * time.Hour)

	if err := s.AuditDB.Model(&models.UsageEvent{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read usage stats"})
		return
	}
	if err := s.AuditDB.Model(&models.UsageEvent{}).
		Where("outcome = ? AND created_at >= ?", "ok", midnight).
		Count(&today).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read usage stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"auditing":    true,
		"totalEvents": total,
		"okToday":     today,
	})
}
