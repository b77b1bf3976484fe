package gatelog

import "sync"

// plateLocks serializes gate events per plate. Entry classification must
// not race its own commit (stale window counts), and two concurrent exits
// must not both match the same open session. Locks are never released back;
// the plate population at a single gate is small enough for that.
type plateLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPlateLocks() *plateLocks {
	return &plateLocks{locks: make(map[string]*sync.Mutex)}
}

func (p *plateLocks) lock(plate string) *sync.Mutex {
	p.mu.Lock()
	m, ok := p.locks[plate]
	if !ok {
		m = &sync.Mutex{}
		p.locks[plate] = m
	}
	p.mu.Unlock()
	m.Lock()
	return m
}
