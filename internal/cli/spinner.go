package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerInterval is the delay between frames.
var spinnerInterval = 80 * time.Millisecond

// spinner redraws a single status line until stopped.
type spinner struct {
	w       io.Writer
	message string
	started time.Time

	mu    sync.Mutex
	quit  chan struct{}
	ended chan struct{}
	once  sync.Once
}

func newSpinner(w io.Writer, message string) *spinner {
	return &spinner{
		w:       w,
		message: message,
		quit:    make(chan struct{}),
		ended:   make(chan struct{}),
	}
}

// start draws frames until stop is called.
func (s *spinner) start() {
	s.started = time.Now()
	go func() {
		defer close(s.ended)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.quit:
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
}

// stop halts the animation, clears the line and returns the elapsed time.
// Only the first call has an effect.
func (s *spinner) stop() time.Duration {
	s.once.Do(func() {
		close(s.quit)
		<-s.ended
		s.mu.Lock()
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
		s.mu.Unlock()
	})
	return time.Since(s.started)
}

// withSpinner runs fn behind a spinner on statusOut. On success it prints
// success with the elapsed time; on failure it prints the user-facing error.
// A canceled ctx is returned as-is so the caller can exit quietly.
func withSpinner(ctx context.Context, message, success string, fn func(context.Context) error) error {
	s := newSpinner(statusOut, message)
	s.start()
	err := fn(ctx)
	elapsed := s.stop()

	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case err != nil:
		printError("%s", message)
		return err
	}
	printSuccess("%s %s", success, StyleDim.Render("("+elapsed.Round(time.Millisecond).String()+")"))
	return nil
}
