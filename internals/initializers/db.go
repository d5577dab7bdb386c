package initializers

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/turinhub/toolbox-sub001/internals/config"
)

// DB holds the optional audit database. It stays nil when AUDIT_DB_URL is
// unset, in which case the server runs fully stateless.
var DB *gorm.DB

// ConnectAuditDB opens the audit database if one is configured. It reports
// whether auditing is active.
func ConnectAuditDB() bool {
	dsn := config.GetEnvAsStr("AUDIT_DB_URL", "")
	if dsn == "" {
		log.Println("Audit: AUDIT_DB_URL not set, usage auditing disabled")
		return false
	}

	var err error
	DB, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("Failed to connect to audit DB")
	}
	return true
}
