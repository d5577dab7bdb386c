package initializers

import (
	"log"
	"time"

	"github.com/turinhub/toolbox-sub001/internals/config"
	"github.com/turinhub/toolbox-sub001/internals/models"
)

// StartAuditCleanup prunes old usage events on a fixed interval so the audit
// table cannot grow without bound. It runs only when auditing is enabled.
func StartAuditCleanup() {
	cleanupInterval := config.GetEnvAsInt("CLEANUP_INTERVAL_MINUTES", 60, true)
	retentionDays := config.GetEnvAsInt("AUDIT_RETENTION_DAYS", 30, true)
	ticker := time.NewTicker(time.Duration(cleanupInterval) * time.Minute)

	go func() {
		for range ticker.C {
			// Unscoped() performs a hard delete, bypassing GORM's soft delete,
			// so pruned rows are physically removed.
			cutoff := time.Now().AddDate(0, 0, -retentionDays)
			result := DB.Unscoped().Where("created_at < ?", cutoff).Delete(&models.UsageEvent{})

			if result.RowsAffected > 0 {
				log.Printf("Janitor: Pruned %d usage events older than %d days", result.RowsAffected, retentionDays)
			}
		}
	}()
}
