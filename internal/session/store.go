package session

import (
	"context"
	"sync"
	"time"

	"xlink-template-picker/internal/gallery"
	"xlink-template-picker/internal/selection"
)

// Session is one user's gallery. Its mutex serialises every engine call, so
// an engine only ever sees one writer at a time.
type Session struct {
	mu           sync.Mutex
	engine       *gallery.Engine
	lastActivity time.Time
	host         HostState
}

// HostState is per-session data owned by the host rather than the engine.
type HostState struct {
	MessageID int
	Menu      string
}

type Options struct {
	// NewEngine builds and loads the engine for a fresh session.
	NewEngine func(ctx context.Context) *gallery.Engine
	TTL       time.Duration
	Now       func() time.Time
}

type Store struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	newEngine func(ctx context.Context) *gallery.Engine
	ttl       time.Duration
	now       func() time.Time
}

func NewStore(opts Options) *Store {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newEngine := opts.NewEngine
	if newEngine == nil {
		newEngine = func(context.Context) *gallery.Engine {
			e := gallery.New(gallery.Options{})
			e.Load(gallery.FallbackTemplates())
			return e
		}
	}

	return &Store{
		sessions:  make(map[string]*Session),
		newEngine: newEngine,
		ttl:       ttl,
		now:       now,
	}
}

// Start replaces any existing session for key with a freshly loaded engine.
func (s *Store) Start(ctx context.Context, key string) gallery.View {
	engine := s.newEngine(ctx)
	sess := &Session{engine: engine, lastActivity: s.now()}

	s.mu.Lock()
	s.sessions[key] = sess
	s.mu.Unlock()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return engine.View()
}

// Update runs fn against the engine of key, creating the session on first
// use, and returns the resulting view.
func (s *Store) Update(ctx context.Context, key string, fn func(*gallery.Engine)) gallery.View {
	sess := s.getOrCreate(ctx, key)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.lastActivity = s.now()
	if fn != nil {
		fn(sess.engine)
	}
	return sess.engine.View()
}

// Get returns the current view of key, creating the session on first use.
func (s *Store) Get(ctx context.Context, key string) gallery.View {
	return s.Update(ctx, key, nil)
}

// Exists reports whether key has a live session.
func (s *Store) Exists(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[key]
	return ok
}

// Commit runs a selection commit for key. Network I/O happens outside the
// session lock, so other actions on the session stay responsive.
func (s *Store) Commit(ctx context.Context, key string, c *selection.Committer) (gallery.View, bool) {
	sess := s.getOrCreate(ctx, key)
	access := func(fn func(selection.Engine)) {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		sess.lastActivity = s.now()
		fn(sess.engine)
	}

	_, started := c.Run(ctx, access)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.engine.View(), started
}

// Host returns the host state of key; zero when there is no session.
func (s *Store) Host(key string) HostState {
	s.mu.Lock()
	sess, ok := s.sessions[key]
	s.mu.Unlock()
	if !ok {
		return HostState{}
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.host
}

func (s *Store) UpdateHost(key string, fn func(*HostState)) {
	s.mu.Lock()
	sess, ok := s.sessions[key]
	s.mu.Unlock()
	if !ok {
		return
	}

	sess.mu.Lock()
	fn(&sess.host)
	sess.mu.Unlock()
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastActivity.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, key)
			removed++
		}
	}
	return removed
}

// Run sweeps idle sessions every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) getOrCreate(ctx context.Context, key string) *Session {
	s.mu.Lock()
	if sess, ok := s.sessions[key]; ok {
		s.mu.Unlock()
		return sess
	}
	s.mu.Unlock()

	// Build outside the store lock: loading may hit the network.
	engine := s.newEngine(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[key]; ok {
		return sess
	}
	sess := &Session{engine: engine, lastActivity: s.now()}
	s.sessions[key] = sess
	return sess
}
