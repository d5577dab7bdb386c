package config

// CookieConfig defines the shared security baseline for all cookies issued by the server.
// Every piece of client-held state (verification marker, quota counters) inherits these
// flags; individual cookies only vary in name, value and lifetime.
type CookieConfig struct {
	// Domain for the cookies
	Domain string
	// IsSecure indicates if cookies should be marked as Secure
	IsSecure bool
	// HttpOnly indicates if cookies should be marked as HttpOnly for security
	HttpOnly bool
}
