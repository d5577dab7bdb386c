package main

import (
	"log"

	"github.com/turinhub/toolbox-sub001/internals/config"
	"github.com/turinhub/toolbox-sub001/internals/initializers"
	"github.com/turinhub/toolbox-sub001/internals/routes"
)

func init() {
	initializers.LoadEnvVariables()

	// The audit trail is optional; the gate itself never reads a database.
	if initializers.ConnectAuditDB() {
		initializers.SyncAuditDatabase()
		initializers.StartAuditCleanup()
	}
}

func main() {
	r := routes.SetupRouter(initializers.DB)

	port := config.GetEnvAsStr("PORT", "8080")
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
