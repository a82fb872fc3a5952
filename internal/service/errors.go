package service

import "errors"

// Sentinel errors let the HTTP layer map outcomes to status codes without
// string matching.
var (
	ErrSessionNotFound      = errors.New("chat session not found")
	ErrSessionAccessDenied  = errors.New("chat session belongs to another user")
	ErrTrackedQueryNotFound = errors.New("tracked query not found")
)
