/*package prof implements scoped wall-clock timers for the phases of the
simulation step. Timing is observational only: a scope never changes the
behavior of the code it wraps, and the whole package is a no-op unless
Enabled is set.*/
package prof

import (
	"log"
	"sort"
	"sync"
	"time"
)

// Enabled turns scope recording on. It should be set once at startup,
// before any solver runs.
var Enabled = false

type entry struct {
	calls int
	total time.Duration
}

var (
	mu      sync.Mutex
	entries = map[string]*entry{}
)

// Scope starts a timer for the named phase and returns the function that
// stops it. The intended use is
//
//	defer prof.Scope("Density Update")()
func Scope(name string) func() {
	if !Enabled {
		return func() {}
	}
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		e := entries[name]
		if e == nil {
			e = &entry{}
			entries[name] = e
		}
		e.calls++
		e.total += d
		mu.Unlock()
	}
}

// Dump logs one line per recorded phase with call count, total time, and
// mean time per call.
func Dump() {
	mu.Lock()
	defer mu.Unlock()

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		e := entries[name]
		log.Printf(
			"prof: %-20s calls=%6d total=%12v mean=%12v",
			name, e.calls, e.total, e.total/time.Duration(e.calls),
		)
	}
}

// Reset drops all recorded entries.
func Reset() {
	mu.Lock()
	entries = map[string]*entry{}
	mu.Unlock()
}
