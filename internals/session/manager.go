package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/turinhub/toolbox-sub001/internals/config"
)

const (
	// CookieName carries the verification credential on every request.
	CookieName = "verification-marker"

	// verifiedScope is the claim value marking a client that passed a human check.
	verifiedScope = "human-verified"
)

// Manager converts a successful human-verification into a client-held,
// time-boxed credential and validates it on later requests. The server keeps
// no session table; the signed cookie is the only record that verification
// happened.
type Manager struct {
	// CookieConfig holds the shared security baseline for issued cookies
	CookieConfig *config.CookieConfig
	// Secret is the HMAC key the credential is signed with
	Secret string
	// TTL is the credential lifetime from issuance
	TTL time.Duration
}

// NewManager initializes and returns a new session Manager instance
func NewManager(cookieConfig *config.CookieConfig, secret string, ttl time.Duration) *Manager {
	return &Manager{
		CookieConfig: cookieConfig,
		Secret:       secret,
		TTL:          ttl,
	}
}

// Issue creates a signed verification credential and attaches it to the
// response. Call it only after the challenge token was confirmed upstream.
func (m *Manager) Issue(c *gin.Context) error {
	expiresAt := time.Now().Add(m.TTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"scope": verifiedScope,
		"jti":   uuid.New().String(),
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	})

	signed, err := token.SignedString([]byte(m.Secret))
	if err != nil {
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, signed, int(m.TTL.Seconds()), "/", m.CookieConfig.Domain, m.CookieConfig.IsSecure, m.CookieConfig.HttpOnly)
	return nil
}

// IsVerified reports whether the request carries a valid, unexpired
// verification credential. A missing cookie, a bad signature, a wrong scope
// and an expired credential are all treated identically as "not verified";
// there is no distinct malformed-credential outcome. Expiry is checked here
// as well as by the browser's cookie store, so a replayed cookie past its
// lifetime is rejected even from a non-browser client.
func (m *Manager) IsVerified(c *gin.Context) bool {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie == "" {
		return false
	}

	token, err := jwt.Parse(cookie, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(m.Secret), nil
	})
	if err != nil || !token.Valid {
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}

	scope, _ := claims["scope"].(string)
	return scope == verifiedScope
}

// Clear drops the credential cookie from the client.
func (m *Manager) Clear(c *gin.Context) {
	c.SetCookie(CookieName, "", -1, "/", m.CookieConfig.Domain, m.CookieConfig.IsSecure, m.CookieConfig.HttpOnly)
}
