package console

import "errors"

// Sentinel kinds for console command errors.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("invalid usage")
	ErrAdminOnly      = errors.New("admin access required")
	ErrLoginRequired  = errors.New("login required")
)
