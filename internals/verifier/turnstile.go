package verifier

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// DefaultVerifyURL is the Cloudflare Turnstile server-side validation endpoint.
const DefaultVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// siteverifyResponse mirrors the relevant part of the Turnstile siteverify body.
type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// TurnstileVerifier checks challenge tokens against the external
// human-verification service. It holds no state beyond its configuration.
type TurnstileVerifier struct {
	Secret    string
	VerifyURL string
	Client    *http.Client
}

// NewTurnstileVerifier initializes a verifier with a bounded request timeout.
// A verification call must never hang a handler indefinitely.
func NewTurnstileVerifier(secret string, verifyURL string, timeout time.Duration) *TurnstileVerifier {
	if verifyURL == "" {
		verifyURL = DefaultVerifyURL
	}
	return &TurnstileVerifier{
		Secret:    secret,
		VerifyURL: verifyURL,
		Client:    &http.Client{Timeout: timeout},
	}
}

// Verify submits a one-time challenge token to the verification service and
// reports whether the upstream explicitly confirmed it. Every failure mode
// (empty token, transport error, timeout, non-2xx status, malformed body)
// results in false: the gate fails closed. A single attempt is made; the end
// user retries by solving a fresh challenge.
func (v *TurnstileVerifier) Verify(ctx context.Context, token string, remoteIP string) bool {
	if token == "" {
		return false
	}

	form := url.Values{}
	form.Set("secret", v.Secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		log.Printf("Turnstile: failed to build siteverify request: %v", err)
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.Client.Do(req)
	if err != nil {
		log.Printf("Turnstile: siteverify request failed: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("Turnstile: siteverify returned status %d", resp.StatusCode)
		return false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Turnstile: failed to read siteverify response: %v", err)
		return false
	}

	var result siteverifyResponse
	if err := sonic.Unmarshal(body, &result); err != nil {
		log.Printf("Turnstile: malformed siteverify response: %v", err)
		return false
	}

	if !result.Success && len(result.ErrorCodes) > 0 {
		log.Printf("Turnstile: verification rejected: %v", result.ErrorCodes)
	}
	return result.Success
}
