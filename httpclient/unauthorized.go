package httpclient

import "strings"

// Routes whose 401s always evict the session. A rejected call to any of
// these means the credentials themselves are bad, not that a specific
// resource is forbidden.
var authEndpointPaths = []string{
	"/accounts/me/",
	"/accounts/token/",
	"/accounts/token/refresh/",
	"/accounts/login/",
	"/accounts/register/",
}

// Structured token-error codes emitted by the backend. These are
// authoritative; the keyword sniff below is only a fallback for responses
// without a code.
var sessionErrorCodes = map[string]struct{}{
	"token_not_valid":       {},
	"authentication_failed": {},
	"not_authenticated":     {},
	"user_inactive":         {},
}

var authDetailKeywords = []string{
	"authentication",
	"credentials",
	"token",
	"login",
}

// sessionAffecting decides whether an unauthorized response invalidates the
// whole session. A 401 from a non-auth resource can be a resource-level
// permission error and must not evict the tokens.
func sessionAffecting(path string, apiErr *APIError) bool {
	for _, authPath := range authEndpointPaths {
		if strings.Contains(path, authPath) {
			return true
		}
	}

	if _, ok := sessionErrorCodes[apiErr.Code]; ok {
		return true
	}

	detail := strings.ToLower(apiErr.Detail)
	if detail == "" {
		return false
	}
	for _, keyword := range authDetailKeywords {
		if strings.Contains(detail, keyword) {
			return true
		}
	}
	return false
}
