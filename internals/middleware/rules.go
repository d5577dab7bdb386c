package middleware

import "strings"

// Policy is the protection level applied to a group of paths.
type Policy int

const (
	// PolicyPublic lets the request through without any check.
	PolicyPublic Policy = iota
	// PolicyProtectedAPI requires a verification credential and answers
	// 401 JSON when it is missing.
	PolicyProtectedAPI
	// PolicyProtectedPage requires a verification credential and redirects
	// the browser to the verification page when it is missing.
	PolicyProtectedPage
)

// Rule binds a URL path prefix to a policy.
type Rule struct {
	Prefix string
	Policy Policy
}

// DefaultRules is the single canonical protection table. Rules are matched
// top to bottom, first prefix match wins, so more specific prefixes must
// come before shorter ones. The final "/" entry makes the table total:
// anything not listed, including static assets, is public.
var DefaultRules = []Rule{
	{Prefix: "/api/verify", Policy: PolicyPublic},
	{Prefix: "/api/quota", Policy: PolicyPublic},
	{Prefix: "/api/stats", Policy: PolicyPublic},
	{Prefix: "/api/generate", Policy: PolicyProtectedAPI},
	{Prefix: "/api/chat", Policy: PolicyProtectedAPI},
	{Prefix: "/api", Policy: PolicyProtectedAPI},
	{Prefix: "/verify", Policy: PolicyPublic},
	{Prefix: "/image-generator", Policy: PolicyProtectedPage},
	{Prefix: "/chat", Policy: PolicyProtectedPage},
	{Prefix: "/", Policy: PolicyPublic},
}

// Classify resolves a request path to its policy using first-match-wins
// prefix rules. An empty rule set treats everything as public.
func Classify(rules []Rule, path string) Policy {
	for _, rule := range rules {
		if strings.HasPrefix(path, rule.Prefix) {
			return rule.Policy
		}
	}
	return PolicyPublic
}
