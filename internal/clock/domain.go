package timing

// Domain is the cycle-accounted time source: a clock ticking at the CPU's
// M-cycle rate that the Bus charges for every memory access and internal
// step, and that external collaborators (a future PPU, the timer
// peripheral) can ask to be woken after N further M-cycles.
//
// Advance increments an integer cycle count instead of yielding a
// goroutine, and AwaitCycles registers a plain callback instead of
// blocking. Scheduling is single-threaded and cooperative, so a waiter's
// callback always runs from inside the call stack of whichever Advance
// crossed its target; there is no concurrent wakeup to coordinate.
type Domain struct {
	cycles  uint64
	waiters []waiter
}

type waiter struct {
	target uint64
	notify func()
}

// NewDomain returns a Domain with its cycle count at zero.
func NewDomain() *Domain {
	return &Domain{}
}

// Advance satisfies memory.Clock: it charges n M-cycles and then calls
// notifyEdge, releasing every waiter whose target has been reached.
func (d *Domain) Advance(n int) {
	if n <= 0 {
		return
	}
	d.cycles += uint64(n)
	d.notifyEdge()
}

// AwaitCycles registers notify to run the next time the domain's cycle
// count reaches at least n cycles from now. It does not block: the caller
// keeps running, and notify fires later from within a subsequent Advance.
func (d *Domain) AwaitCycles(n int, notify func()) {
	d.waiters = append(d.waiters, waiter{target: d.cycles + uint64(n), notify: notify})
}

// notifyEdge releases exactly the waiters whose remaining count has
// reached zero.
func (d *Domain) notifyEdge() {
	if len(d.waiters) == 0 {
		return
	}
	remaining := d.waiters[:0]
	for _, w := range d.waiters {
		if d.cycles >= w.target {
			w.notify()
		} else {
			remaining = append(remaining, w)
		}
	}
	d.waiters = remaining
}

// Cycles returns the total M-cycles elapsed since the domain was created.
func (d *Domain) Cycles() uint64 {
	return d.cycles
}
