package moderation

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrAlreadyBanned = errors.New("user is already banned")
	ErrNotBanned     = errors.New("user is not banned")
	ErrBanConflict   = errors.New("user state changed, refresh and retry")
)
