package models

import (
	"log"

	"gorm.io/gorm"
)

// UsageEvent is one row of the fire-and-forget audit trail. It exists for
// operators only: no gate or quota decision ever reads this table, so the
// client-held cookies stay the single source of truth for access control.
type UsageEvent struct {
	gorm.Model
	RequestID  string `gorm:"column:request_id;index"`
	Kind       string `gorm:"column:kind;index"` // "generate" or "chat"
	Outcome    string `gorm:"column:outcome"`    // "ok", "rejected", "upstream_error"
	DurationMs int64  `gorm:"column:duration_ms"`
}

// RecordUsage persists an audit event in the background. A nil db means
// auditing is disabled and the call is a no-op; a write failure is logged
// and never affects the request that triggered it.
func RecordUsage(db *gorm.DB, event UsageEvent) {
	if db == nil {
		return
	}
	go func() {
		if err := db.Create(&event).Error; err != nil {
			log.Printf("Audit: failed to record usage event: %v", err)
		}
	}()
}
