package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/WajidKarimm/legalease-ai/internal/logger"
)

// Inbox watches a directory and hands every new file to a handler once
// writes to it have settled
type Inbox struct {
	dir      string
	debounce time.Duration
	log      *logger.Logger

	mu     sync.Mutex
	timers map[string]pending
	gen    uint64
	closed bool
}

// pending is the debounce timer of one path. gen tells a timer that fired
// while it was being replaced apart from the current one.
type pending struct {
	timer *time.Timer
	gen   uint64
}

// NewInbox creates a watcher for dir
func NewInbox(dir string, debounce time.Duration, log *logger.Logger) *Inbox {
	if log == nil {
		log = logger.Nop()
	}
	return &Inbox{
		dir:      dir,
		debounce: debounce,
		log:      log.WithComponent("watch"),
		timers:   make(map[string]pending),
	}
}

// Dir returns the watched directory
func (in *Inbox) Dir() string {
	return in.dir
}

// Run blocks until ctx is cancelled. handle runs on its own goroutine per
// settled file; Run waits for running handlers before returning.
func (in *Inbox) Run(ctx context.Context, handle func(ctx context.Context, path string)) error {
	if err := os.MkdirAll(in.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create inbox: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			in.log.Warn("failed to close watcher: %v", err)
		}
	}()

	if err := watcher.Add(in.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", in.dir, err)
	}

	in.mu.Lock()
	in.closed = false
	in.mu.Unlock()

	var handlers sync.WaitGroup
	defer handlers.Wait()
	defer in.stopTimers()

	fire := func(path string, gen uint64) {
		in.mu.Lock()
		if !in.claim(path, gen) || ctx.Err() != nil {
			in.mu.Unlock()
			return
		}
		handlers.Add(1)
		in.mu.Unlock()

		go func() {
			defer handlers.Done()
			handle(ctx, path)
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 || skipName(event.Name) {
				continue
			}
			in.schedule(event.Name, fire)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			in.log.Error("watcher error: %v", err)
		}
	}
}

// schedule (re)starts the debounce of path. A timer that already fired
// and waits for the lock is superseded instead of being reset.
func (in *Inbox) schedule(path string, fire func(path string, gen uint64)) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.closed {
		return
	}
	if p, ok := in.timers[path]; ok {
		p.timer.Stop()
	}
	in.gen++
	gen := in.gen
	in.timers[path] = pending{
		timer: time.AfterFunc(in.debounce, func() { fire(path, gen) }),
		gen:   gen,
	}
}

// claim reports whether the timer gen is still the current one for path
// and removes it. The caller holds in.mu.
func (in *Inbox) claim(path string, gen uint64) bool {
	p, ok := in.timers[path]
	if !ok || p.gen != gen || in.closed {
		return false
	}
	delete(in.timers, path)
	return true
}

func (in *Inbox) stopTimers() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.closed = true
	for path, p := range in.timers {
		p.timer.Stop()
		delete(in.timers, path)
	}
}

// skipName ignores hidden and partial files
func skipName(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasSuffix(base, ".part") || strings.HasSuffix(base, "~")
}
