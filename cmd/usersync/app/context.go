package app

import (
	"context"
	"os/signal"
	"syscall"
)

// ContextWithSignals returns a context that is cancelled when the process
// receives SIGINT or SIGTERM, allowing in-flight API calls to wind down.
func ContextWithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
