package console

import (
	"bufio"
	"context"
	"io"
	"log/slog"
)

// Watcher waits for a leave directive typed on local input. It composes a
// blocking line read with context cancellation instead of polling for input
// readiness.
type Watcher struct {
	in        io.Reader
	directive string
	logger    *slog.Logger
}

// NewWatcher creates a Watcher over the given input stream
func NewWatcher(in io.Reader, directive string, logger *slog.Logger) *Watcher {
	return &Watcher{
		in:        in,
		directive: directive,
		logger:    logger.With(slog.String("component", "console-watcher")),
	}
}

// Watch returns a channel that is closed when the directive is entered.
// Cancelling the context stops the watcher without closing the channel.
// The goroutine blocked on the input read exits when the input stream ends;
// for stdin that is at process exit, which is the watcher's whole lifetime
// anyway.
func (w *Watcher) Watch(ctx context.Context) <-chan struct{} {
	leave := make(chan struct{})
	lines := make(chan string)

	go func() {
		scanner := bufio.NewScanner(w.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case line := <-lines:
				if line == w.directive {
					w.logger.Info("leave directive received")
					close(leave)
					return
				}
			}
		}
	}()

	return leave
}
