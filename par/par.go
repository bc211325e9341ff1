/*package par provides the data-parallel iteration primitive used by the
solver's per-particle passes. The solver depends only on the Runner
interface, so tests can force sequential execution and callers can cap the
worker count.*/
package par

import "runtime"

// NumCores is the default worker count for new pools. Front ends may lower
// it with a flag before constructing a solver.
var NumCores = runtime.NumCPU()

// Runner executes f(i) for every i in [0, n). Implementations may run the
// calls in any order on any number of goroutines. Callers must not rely on
// ordering between indices.
type Runner interface {
	Run(n int, f func(i int))
}

// Serial runs every index on the calling goroutine, in order.
type Serial struct{}

func (Serial) Run(n int, f func(i int)) {
	for i := 0; i < n; i++ {
		f(i)
	}
}

// Pool runs indices striped across a fixed number of goroutines. A Pool is
// stateless between calls, so a single value may be shared.
type Pool struct {
	workers int
}

// NewPool returns a pool running on the given number of goroutines.
// Non-positive counts fall back to NumCores.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = NumCores
	}
	return &Pool{workers: workers}
}

// Run calls f(i) for every i in [0, n), blocking until all calls return.
func (p *Pool) Run(n int, f func(i int)) {
	if n <= p.workers {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	out := make(chan int, p.workers)
	for id := 0; id < p.workers; id++ {
		go func(id int) {
			for i := id; i < n; i += p.workers {
				f(i)
			}
			out <- id
		}(id)
	}
	for i := 0; i < p.workers; i++ {
		<-out
	}
}
