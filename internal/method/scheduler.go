package method

import "sync"

// Scheduler is the PROCESS PASS work queue, the "scheduled-methods
// queue": every method that wins its Tag race during
// UPDATE PASS adds itself here, and PROCESS PASS drains the whole set
// once the pass begins. Owned by the orchestrator, one per run's
// retained model — never global.
type Scheduler struct {
	mu sync.Mutex
	set map[*Impl]struct{}
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{set: make(map[*Impl]struct{})}
}

func (s *Scheduler) add(m *Impl) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.set[m] = struct{}{}
	s.mu.Unlock()
}

// Drain returns every method added since the last Drain and clears the
// set, so a subsequent run starts empty.
func (s *Scheduler) Drain() []*Impl {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Impl, 0, len(s.set))
	for m := range s.set {
		out = append(out, m)
	}
	s.set = make(map[*Impl]struct{})
	return out
}
