// Package diag is the allocator's single diagnostic sink: one choke
// point for capacity-exhausted, invalid-argument, and alignment
// diagnostics, so a host process can redirect them into its own logger
// without the allocator packages importing one directly.
package diag

import (
	"fmt"
	"os"
	"sync"
)

// Sink receives allocator diagnostics. Implementations must be safe to
// call from a single goroutine at a time (the allocator itself is not
// concurrent).
type Sink interface {
	// Warnf reports an advisory condition: logged and ignored, never a
	// reason to fail the call.
	Warnf(format string, args ...any)

	// Errorf reports a failed operation (capacity exhausted, invalid
	// argument, double-free/corruption) alongside the sentinel error the
	// caller already returns.
	Errorf(format string, args ...any)
}

// stderrSink is the default Sink: it writes every diagnostic to
// os.Stderr with fmt.Fprintf, with no debug gate.
type stderrSink struct{}

func (stderrSink) Warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[alloc] warn: "+format+"\n", args...)
}

func (stderrSink) Errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[alloc] error: "+format+"\n", args...)
}

var (
	mu      sync.Mutex
	current Sink = stderrSink{}
)

// SetSink installs the sink every allocator package's diagnostics route
// through from this point on. Passing nil restores the default stderr
// sink.
func SetSink(s Sink) {
	mu.Lock()
	defer mu.Unlock()
	if s == nil {
		s = stderrSink{}
	}
	current = s
}

// Warnf routes an advisory diagnostic to the installed sink.
func Warnf(format string, args ...any) {
	mu.Lock()
	s := current
	mu.Unlock()
	s.Warnf(format, args...)
}

// Errorf routes an error diagnostic to the installed sink.
func Errorf(format string, args ...any) {
	mu.Lock()
	s := current
	mu.Unlock()
	s.Errorf(format, args...)
}
