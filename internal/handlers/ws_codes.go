// internal/handlers/ws_codes.go
package handlers

import "github.com/coder/websocket"

// Application close codes in the 3000-3999 range reserved for libraries
// and frameworks by RFC 6455.
const (
	StatusInvalidToken  websocket.StatusCode = 3000
	StatusLobbyNotFound websocket.StatusCode = 3001
	StatusGameNotFound  websocket.StatusCode = 3002
	StatusNotSeated     websocket.StatusCode = 3003
)
