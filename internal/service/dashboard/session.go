package dashboard

import (
	"log/slog"
	"sync"
	"time"

	"github.com/facturaflow/dashboard/internal/domain/dashboard"
	"github.com/google/uuid"
)

// DefaultSessionTTL drops page views idle for longer than this
const DefaultSessionTTL = 30 * time.Minute

type session struct {
	sidebar  *Sidebar
	category string
	search   string
	lastSeen time.Time
}

type SessionServiceImpl struct {
	mu         sync.Mutex
	sessions   map[string]*session
	breakpoint int
	ttl        time.Duration
	now        func() time.Time
}

// NewSessionService keeps per page view state in memory
func NewSessionService(breakpoint int, ttl time.Duration) dashboard.SessionService {
	return newSessionService(breakpoint, ttl, time.Now)
}

func newSessionService(breakpoint int, ttl time.Duration, now func() time.Time) *SessionServiceImpl {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionServiceImpl{
		sessions:   make(map[string]*session),
		breakpoint: breakpoint,
		ttl:        ttl,
		now:        now,
	}
}

func (s *SessionServiceImpl) Create() dashboard.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	sess := &session{
		sidebar:  NewSidebar(s.breakpoint),
		category: CategoryAll,
		lastSeen: s.now(),
	}
	s.sessions[id] = sess
	return dashboard.SessionView{ID: id, Sidebar: sess.sidebar.State()}
}

func (s *SessionServiceImpl) Get(id string) (dashboard.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(id)
	if err != nil {
		return dashboard.SessionView{}, err
	}
	return dashboard.SessionView{ID: id, Sidebar: sess.sidebar.State()}, nil
}

func (s *SessionServiceImpl) ToggleSidebar(id string, viewportWidth int) (dashboard.SidebarState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(id)
	if err != nil {
		return dashboard.SidebarState{}, err
	}
	return sess.sidebar.Toggle(viewportWidth)
}

func (s *SessionServiceImpl) CloseSidebar(id string) (dashboard.SidebarState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(id)
	if err != nil {
		return dashboard.SidebarState{}, err
	}
	return sess.sidebar.Close(), nil
}

func (s *SessionServiceImpl) RememberFilter(id, category, search string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(id)
	if err != nil {
		return err
	}
	sess.category = category
	sess.search = search
	return nil
}

// Filter returns the last filter inputs of a session
func (s *SessionServiceImpl) Filter(id string) (category, search string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(id)
	if err != nil {
		return "", "", err
	}
	return sess.category, sess.search, nil
}

func (s *SessionServiceImpl) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		slog.Info("Swept idle dashboard sessions", "removed", removed, "remaining", len(s.sessions))
	}
	return removed
}

// touch expects s.mu held
func (s *SessionServiceImpl) touch(id string) (*session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, dashboard.ErrSessionNotFound
	}
	sess.lastSeen = s.now()
	return sess, nil
}
