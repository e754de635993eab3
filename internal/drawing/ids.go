package drawing

import (
	"strconv"
	"sync"
	"time"
)

// IDSource hands out time-based element ids. Every id is strictly greater
// than the last one issued and than any numeric id it has observed, so ids
// are never reused within a document even when the wall clock stalls.
type IDSource struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDSource() *IDSource {
	return &IDSource{now: time.Now}
}

// Next returns a new id.
func (s *IDSource) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.now().UnixMilli()
	if ts <= s.last {
		ts = s.last + 1
	}
	s.last = ts
	return strconv.FormatInt(ts, 10)
}

// Observe advances the source past id when id is numeric.
func (s *IDSource) Observe(id string) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > s.last {
		s.last = n
	}
}
