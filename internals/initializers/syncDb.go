package initializers

import (
	"github.com/turinhub/toolbox-sub001/internals/models"
)

func SyncAuditDatabase() {
	err := DB.AutoMigrate(
		&models.UsageEvent{},
	)
	if err != nil {
		panic("Failed to migrate audit database")
	}
}
