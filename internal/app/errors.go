package app

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionNotLive  = errors.New("session is not live")
	ErrNotInSession    = errors.New("connection has not joined a session")
	ErrRoleViolation   = errors.New("message type not allowed for role")
)
