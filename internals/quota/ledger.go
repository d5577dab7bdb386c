package quota

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turinhub/toolbox-sub001/internals/config"
)

const (
	// CountCookie stores the number of generations the client performed today.
	CountCookie = "quota-count"
	// DateCookie stores the calendar day the count belongs to, as an ISO date.
	DateCookie = "quota-date"

	// DateLayout is the ISO calendar date format used in the date cookie.
	DateLayout = "2006-01-02"

	// DefaultCap is the free daily generation allowance.
	DefaultCap = 5
)

// Record is the client-held daily usage counter with its date stamp. The
// server never stores it; it is decoded from the request cookies and written
// back after each successful consuming operation.
type Record struct {
	Count int
	Date  string
}

// Effective returns the count that actually applies on the given day. A
// record stamped with any other day (or no day at all) counts as zero: the
// quota resets lazily the first time a request arrives after midnight,
// without any background job.
func (r Record) Effective(today string) int {
	if r.Date != today || r.Count < 0 {
		return 0
	}
	return r.Count
}

// Ledger is the single seam for quota accounting. The cookie-backed
// implementation has a documented lost-update race under concurrent requests
// from one client; a hardened implementation backed by an atomic store can
// replace it without touching any handler.
type Ledger interface {
	CurrentCount(c *gin.Context) int
	HasReachedLimit(c *gin.Context) bool
	NextCount(c *gin.Context) int
	Commit(c *gin.Context, count int)
	Cap() int
}

// CookieLedger keeps the quota entirely in client-held cookies. Reads are
// pure; the only write is Commit, which rewrites both cookies with today's
// date and an expiry at the next local midnight.
type CookieLedger struct {
	// CookieConfig holds the shared security baseline for issued cookies
	CookieConfig *config.CookieConfig
	// Limit is the daily cap on consuming operations
	Limit int
	// Now is the clock; it exists so day-rollover behavior is testable
	Now func() time.Time
}

// NewCookieLedger initializes a cookie-backed ledger with the given daily cap.
func NewCookieLedger(cookieConfig *config.CookieConfig, limit int) *CookieLedger {
	if limit <= 0 {
		limit = DefaultCap
	}
	return &CookieLedger{
		CookieConfig: cookieConfig,
		Limit:        limit,
		Now:          time.Now,
	}
}

// Cap returns the daily allowance.
func (l *CookieLedger) Cap() int {
	return l.Limit
}

// today is the server's current UTC calendar day; the stored client day is
// compared against it by plain string equality, not a rolling 24h window.
func (l *CookieLedger) today() string {
	return l.Now().UTC().Format(DateLayout)
}

// decode reads the quota record off the request. Missing or unparseable
// cookies yield a zero record.
func (l *CookieLedger) decode(c *gin.Context) Record {
	var rec Record
	if date, err := c.Cookie(DateCookie); err == nil {
		rec.Date = date
	}
	if raw, err := c.Cookie(CountCookie); err == nil {
		if count, err := strconv.Atoi(raw); err == nil {
			rec.Count = count
		}
	}
	return rec
}

// CurrentCount returns how many consuming operations the client performed
// today. It never mutates state.
func (l *CookieLedger) CurrentCount(c *gin.Context) int {
	return l.decode(c).Effective(l.today())
}

// HasReachedLimit reports whether the client exhausted today's allowance.
func (l *CookieLedger) HasReachedLimit(c *gin.Context) bool {
	return l.CurrentCount(c) >= l.Limit
}

// NextCount is the count the client would reach by performing one more
// consuming operation now.
func (l *CookieLedger) NextCount(c *gin.Context) int {
	return l.CurrentCount(c) + 1
}

// Commit writes the new count and today's date back to the client. Both
// cookies expire at the next local midnight, so a browser that stays away
// past midnight drops them on its own and the date check covers the rest.
func (l *CookieLedger) Commit(c *gin.Context, count int) {
	now := l.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	maxAge := int(midnight.Sub(now).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CountCookie, strconv.Itoa(count), maxAge, "/", l.CookieConfig.Domain, l.CookieConfig.IsSecure, l.CookieConfig.HttpOnly)
	c.SetCookie(DateCookie, l.today(), maxAge, "/", l.CookieConfig.Domain, l.CookieConfig.IsSecure, l.CookieConfig.HttpOnly)
}
