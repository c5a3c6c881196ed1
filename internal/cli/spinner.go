package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner animates a progress indicator on stderr until stopped or until
// its parent context is cancelled. Frames go to stderr so they never mix
// with piped command output.
type Spinner struct {
	message string
	out     io.Writer
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	idle    chan struct{}
}

// newSpinner creates a spinner that runs until Stop.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that also stops when ctx is
// cancelled, so Ctrl-C during a long render leaves a clean line behind.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		out:     os.Stderr,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		idle:    make(chan struct{}),
	}
}

// Start launches the animation goroutine. The goroutine is the only
// writer of the spinner line, so no locking is needed around frames.
func (s *Spinner) Start() {
	go s.run()
}

func (s *Spinner) run() {
	defer close(s.idle)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case <-s.ctx.Done():
			s.erase()
			return
		case <-ticker.C:
			fmt.Fprintf(s.out, "\r%s %s",
				styleSpinner.Render(spinnerFrames[frame]),
				StyleDim.Render(s.message))
			frame = (frame + 1) % len(spinnerFrames)
		}
	}
}

// Stop halts the animation, waits for the goroutine to finish, and clears
// the line. Safe to call more than once and safe after context
// cancellation. Start must have been called first.
func (s *Spinner) Stop() {
	s.cancel()
	<-s.idle
	s.erase()
}

// StopWithSuccess stops the spinner and prints a success line in its place.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error line in its place.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the parent context ended, as opposed to a
// normal Stop.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

// erase clears the current terminal line with carriage return plus
// erase-line so no frame residue is left for the next writer.
func (s *Spinner) erase() {
	fmt.Fprint(s.out, "\r\x1b[2K")
}
