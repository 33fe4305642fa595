// Package diag implements the diagnostics collaborator helpers named in
// §4.1 and §6.6: enter_fn, set_location and the frame-stack dump every
// compiled function's prologue/epilogue brackets its body with.
//
// Grounded in the teacher's terminal handling (internal/evaluator/builtins_term.go),
// which gates ANSI output on github.com/mattn/go-isatty the same way.
package diag

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// Frame is one entry of the call-stack the diagnostics layer maintains for
// error reporting and partial-function diagnostics.
type Frame struct {
	FuncName string
	Location string
}

// Stack is a process-wide, single-threaded call/location stack. The runtime
// context owns one; it is not shareable across goroutines (§5 Scheduling model).
type Stack struct {
	mu     sync.Mutex
	frames []Frame
}

func NewStack() *Stack { return &Stack{} }

// EnterFn pushes a frame for a newly-entered compiled function. Called from
// every function prologue (§4.3.2).
func (s *Stack) EnterFn(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, Frame{FuncName: name})
}

// ExitFn pops the innermost frame. Called from the epilogue, symmetric with
// EnterFn bracketing every call depth dec (§4.1).
func (s *Stack) ExitFn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) > 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// SetLocation annotates the innermost frame with a source location (§6.6).
func (s *Stack) SetLocation(loc string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) > 0 {
		s.frames[len(s.frames)-1].Location = loc
	}
}

// Depth reports how many frames are currently on the stack.
func (s *Stack) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// Snapshot copies the current frames, innermost last.
func (s *Stack) Snapshot() []Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Frame, len(s.frames))
	copy(out, s.frames)
	return out
}

// Render formats the stack as a human-readable trace, colorized only when
// stdout is a real terminal — the same gate the teacher applies before
// emitting ANSI escapes.
func Render(frames []Frame) string {
	colorize := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	var b strings.Builder
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		if colorize {
			fmt.Fprintf(&b, "\x1b[36m  at %s\x1b[0m", f.FuncName)
		} else {
			fmt.Fprintf(&b, "  at %s", f.FuncName)
		}
		if f.Location != "" {
			fmt.Fprintf(&b, " (%s)", f.Location)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
