package ui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Spinner animates a one-line progress indicator for headless commands.
// The dashboard uses the bubbles spinner instead.
type Spinner struct {
	out    io.Writer
	frames []string
	delay  time.Duration

	mu   sync.Mutex
	msg  string
	stop chan struct{}
	done chan struct{}
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a spinner writing to out.
func NewSpinner(out io.Writer, msg string) *Spinner {
	return &Spinner{
		out:    out,
		frames: spinnerFrames,
		delay:  80 * time.Millisecond,
		msg:    msg,
	}
}

// Start begins the animation. Calling Start on a running spinner is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stop, s.done)
}

// SetMessage replaces the text shown next to the frame.
func (s *Spinner) SetMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msg = msg
}

func (s *Spinner) run(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.delay)
	defer ticker.Stop()

	for i := 0; ; i++ {
		s.mu.Lock()
		msg := s.msg
		s.mu.Unlock()
		fmt.Fprintf(s.out, "\r%s  %s", StyleToken.Render(s.frames[i%len(s.frames)]), msg)

		select {
		case <-stop:
			fmt.Fprintf(s.out, "\r%-60s\r", "")
			return
		case <-ticker.C:
		}
	}
}

// Stop halts the spinner, clears its line and waits for it to finish.
func (s *Spinner) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}
