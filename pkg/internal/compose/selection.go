package compose

import "sync"

// SelectionState is the SelectionPort fed by the editor surface: the
// client reports its selection range here, the marking commands read it.
type SelectionState struct {
	mtx    sync.Mutex
	start  int
	end    int
	active bool
}

func (s *SelectionState) Set(start, end int) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if start > end {
		start, end = end, start
	}
	s.start = start
	s.end = end
	s.active = true
}

func (s *SelectionState) Clear() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.active = false
}

func (s *SelectionState) Selection() (int, int, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.start, s.end, s.active
}
