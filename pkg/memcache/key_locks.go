package mem

import "sync"

// KeyLocks hands out one mutex per string key so check-then-act sequences
// on the same invoice or guild serialize without blocking unrelated keys.
// Locks are never evicted; the key space (active invoices, guild ids) is
// small enough that this is fine for a single process.
type KeyLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyLocks() *KeyLocks {
	return &KeyLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *KeyLocks) get(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// Lock acquires the mutex for key and returns its unlock func.
func (s *KeyLocks) Lock(key string) func() {
	l := s.get(key)
	l.Lock()
	return l.Unlock
}
