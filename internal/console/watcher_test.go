package console_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rjmcf/dungeonchat-go/internal/console"
	"github.com/rjmcf/dungeonchat-go/internal/testutil"
)

func TestWatchClosesOnDirective(t *testing.T) {
	in, out := io.Pipe()
	defer in.Close()
	watcher := console.NewWatcher(in, "EXIT", testutil.NopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	leave := watcher.Watch(ctx)

	go func() {
		_, _ = out.Write([]byte("not it\n"))
		_, _ = out.Write([]byte("EXIT\n"))
	}()

	select {
	case <-leave:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not report the directive")
	}
}

func TestWatchIgnoresOtherLines(t *testing.T) {
	in, out := io.Pipe()
	defer in.Close()
	watcher := console.NewWatcher(in, "EXIT", testutil.NopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	leave := watcher.Watch(ctx)

	go func() {
		_, _ = out.Write([]byte("exit\n")) // directive is case-sensitive
		_, _ = out.Write([]byte("EXIT PLEASE\n"))
	}()

	select {
	case <-leave:
		t.Fatal("watcher closed without the directive")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatchStopsOnCancel(t *testing.T) {
	in, out := io.Pipe()
	defer in.Close()
	watcher := console.NewWatcher(in, "EXIT", testutil.NopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	leave := watcher.Watch(ctx)
	cancel()

	// Give the watcher goroutines time to observe the cancellation, then
	// check a late directive no longer closes the channel.
	time.Sleep(50 * time.Millisecond)
	go func() {
		_, _ = out.Write([]byte("EXIT\n"))
	}()

	select {
	case <-leave:
		t.Fatal("watcher closed after cancellation")
	case <-time.After(100 * time.Millisecond):
	}
}
