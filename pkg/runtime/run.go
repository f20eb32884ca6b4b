package runtime

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// streamWriter serializes console output onto one destination.
type streamWriter struct {
	mu sync.Mutex
	w  io.Writer
}

var (
	stdout = &streamWriter{w: os.Stdout}
	stderr = &streamWriter{w: os.Stderr}
)

func (s *streamWriter) swap(w io.Writer) io.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.w
	s.w = w
	return prev
}

func (s *streamWriter) writeLine(args []Value) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = inspect(a, 0)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	io.WriteString(s.w, strings.Join(parts, " ")+"\n")
}

// SetOutput redirects console.log and returns the previous destination.
func SetOutput(w io.Writer) io.Writer { return stdout.swap(w) }

// SetErrorOutput redirects console.error and uncaught exception reports.
func SetErrorOutput(w io.Writer) io.Writer { return stderr.swap(w) }

// Execute runs a translated program. An uncaught exception is returned as
// an *Exception.
func Execute(program func(this Value)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()
	program(Undefined)
	return nil
}

// Run is the entry point of generated programs: it executes program and
// exits with status 1 after reporting an uncaught exception.
func Run(program func(this Value)) {
	if err := Execute(program); err != nil {
		stderr.mu.Lock()
		fmt.Fprintln(stderr.w, err)
		stderr.mu.Unlock()
		os.Exit(1)
	}
}
