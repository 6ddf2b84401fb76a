package middleware

import (
	"net/http"
	"strings"
)

// ContentSecurityPolicy is served report-only on every response.
var ContentSecurityPolicy = strings.Join([]string{
	"default-src 'none'",
	"connect-src 'self' https://chatgpt.com https://sentinel.openai.com https://*.oaiusercontent.com https://api.openai.com https://browser-intake-datadoghq.com https://api-js.mixpanel.com https://*.supabase.co",
	"frame-src 'self' https://chatgpt.com https://sentinel.openai.com https://cdn.platform.openai.com",
	"script-src 'self' 'unsafe-inline' 'unsafe-eval' https://chatgpt.com https://sentinel.openai.com https://cdn.platform.openai.com",
	"font-src 'self' https://cdn.openai.com",
	"style-src 'self' 'unsafe-inline'",
	"img-src 'self' data: blob: https:",
	"report-uri /api/csp-report",
}, "; ")

// PermissionsPolicy lets the widget iframes go fullscreen.
const PermissionsPolicy = "fullscreen=(self https://cdn.platform.openai.com https://sentinel.openai.com)"

// SecurityHeaders attaches the static security headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy-Report-Only", ContentSecurityPolicy)
		w.Header().Set("Permissions-Policy", PermissionsPolicy)
		next.ServeHTTP(w, r)
	})
}
