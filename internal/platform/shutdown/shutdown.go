package shutdown

import (
	"context"
	"os/signal"
	"syscall"
	"time"
)

// NotifyContext is canceled on SIGINT or SIGTERM.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// Drain runs each stop func under one shared deadline, detached from the
// (by now canceled) serving context. Every func runs; the first error wins.
func Drain(timeout time.Duration, stops ...func(context.Context) error) error {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var first error
	for _, stop := range stops {
		if stop == nil {
			continue
		}
		if err := stop(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
