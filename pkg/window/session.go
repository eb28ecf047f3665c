package window

import (
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Session keeps the open windows of a process. When the last one closes
// the session runs its shutdown callback, once.
type Session struct {
	mu      sync.Mutex
	logger  *log.Logger
	windows []*Window
	onEmpty func()
	done    bool
}

func NewSession(logger *log.Logger, onEmpty func()) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{logger: logger, onEmpty: onEmpty}
}

// Open creates a window registered with the session.
func (s *Session) Open(opts ...Option) *Window {
	w := New(s, opts...)
	s.mu.Lock()
	s.windows = append(s.windows, w)
	s.mu.Unlock()
	w.logger.Debug("window opened")
	return w
}

// Close unregisters w. Closing a window that is not open is a no-op.
func (s *Session) Close(w *Window) {
	s.mu.Lock()
	i := slices.Index(s.windows, w)
	if i < 0 {
		s.mu.Unlock()
		s.logger.Warn("close of unknown window", "id", w.ID)
		return
	}
	s.windows = slices.Delete(s.windows, i, i+1)
	last := len(s.windows) == 0 && !s.done
	if last {
		s.done = true
	}
	s.mu.Unlock()

	w.logger.Debug("window closed")
	if last && s.onEmpty != nil {
		s.logger.Info("last window closed")
		s.onEmpty()
	}
}

// Windows returns the open windows in the order they were opened.
func (s *Session) Windows() []*Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.windows)
}

func (s *Session) Lookup(id uuid.UUID) *Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}
