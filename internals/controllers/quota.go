package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turinhub/toolbox-sub001/internals/quota"
)

type QuotaController struct {
	Ledger quota.Ledger
}

func NewQuotaController(ledger quota.Ledger) *QuotaController {
	return &QuotaController{Ledger: ledger}
}

// Remaining reports today's allowance without mutating any client state. It
// applies the same lazy day-rollover rule as the consuming path: a stale
// date cookie reads as zero used.
func (q *QuotaController) Remaining(c *gin.Context) {
	used := q.Ledger.CurrentCount(c)
	remaining := q.Ledger.Cap() - used
	if remaining < 0 {
		remaining = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"remainingGenerations": remaining,
		"totalGenerations":     q.Ledger.Cap(),
		"usedGenerations":      used,
	})
}
