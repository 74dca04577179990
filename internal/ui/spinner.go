package ui

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Spinner displays an animated spinner with a message on stderr, leaving
// stdout to command output. It stays silent when stderr is not a terminal.
type Spinner struct {
	out     *os.File
	message string
	frames  []string
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	current int
	active  bool
}

// Default spinner frames (dots style)
var defaultFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a new spinner with the given message.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		out:     os.Stderr,
		message: message,
		frames:  defaultFrames,
		done:    make(chan struct{}),
	}
}

// SetMessage replaces the message shown next to the spinner.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	if !isatty.IsTerminal(s.out.Fd()) {
		return
	}
	s.active = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				// Clear the spinner line
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				s.mu.Lock()
				frame := s.frames[s.current%len(s.frames)]
				message := s.message
				s.current++
				s.mu.Unlock()
				fmt.Fprintf(s.out, "\r\033[K%s %s", Bold.Render(frame), message)
			}
		}
	}()
}

// Stop stops the spinner and clears its line.
func (s *Spinner) Stop() {
	if !s.active {
		return
	}
	s.active = false
	close(s.done)
	s.wg.Wait()
}
