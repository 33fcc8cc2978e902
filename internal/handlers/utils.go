// internal/handlers/utils.go
package handlers

import "strings"

// extractCookieToken pulls a named cookie value out of a raw Cookie header.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, ";")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, cookieName+"=") {
			return strings.TrimPrefix(part, cookieName+"=")
		}
	}
	return ""
}
