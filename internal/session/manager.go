package session

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/sessionid"
)

const (
	DefaultIdleTTL       = 30 * time.Minute
	DefaultSweepInterval = time.Minute
)

// Manager tracks live sessions by ID
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	created  int64

	clock   quartz.Clock
	ids     *sessionid.Generator
	logger  *log.Logger
	ttl     time.Duration
	seed    int64
	options []game.Option
}

// Option configures a Manager
type Option func(*Manager)

// WithClock sets the clock used for idle tracking and sweeping
func WithClock(clock quartz.Clock) Option {
	return func(m *Manager) { m.clock = clock }
}

// WithIDGenerator sets the session ID source
func WithIDGenerator(g *sessionid.Generator) Option {
	return func(m *Manager) { m.ids = g }
}

// WithIdleTTL sets how long a session may go untouched before Sweep evicts it
func WithIdleTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.ttl = ttl }
}

// WithSeed makes table shuffles reproducible. Session n uses seed+n.
func WithSeed(seed int64) Option {
	return func(m *Manager) { m.seed = seed }
}

// WithGameOptions sets the options every new table is created with
func WithGameOptions(opts ...game.Option) Option {
	return func(m *Manager) { m.options = opts }
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// NewManager creates an empty manager
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		ttl:      DefaultIdleTTL,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.clock == nil {
		m.clock = quartz.NewReal()
	}
	if m.ids == nil {
		m.ids = sessionid.NewGenerator(nil, m.clock)
	}
	if m.seed == 0 {
		m.seed = randutil.Seed(0)
	}
	m.logger = m.logger.WithPrefix("session")
	return m
}

// Create opens a new table in the given mode
func (m *Manager) Create(mode Mode) (*Session, error) {
	m.mu.Lock()
	m.created++
	rng := randutil.New(m.seed + m.created)
	m.mu.Unlock()

	s, err := m.newSession(mode, rng)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	total := len(m.sessions)
	m.mu.Unlock()

	m.logger.Info("Session created", "id", s.ID, "mode", mode, "total", total)
	return s, nil
}

func (m *Manager) newSession(mode Mode, rng *rand.Rand) (*Session, error) {
	now := m.clock.Now()
	s := &Session{
		ID:       m.ids.New(),
		Mode:     mode,
		Created:  now,
		lastSeen: now,
	}

	opts := append([]game.Option{game.WithLogger(m.logger.With("session", s.ID))}, m.options...)

	var err error
	switch mode {
	case ModeDealer:
		s.game, err = game.New(rng, opts...)
	case ModeDuel:
		s.duel, err = game.NewDuel(rng, opts...)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the session without touching it
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Do runs fn with exclusive access to the session and marks it as seen.
func (m *Manager) Do(id string, fn func(*Session) error) error {
	s, ok := m.Get(id)
	if !ok {
		return ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = m.clock.Now()
	return fn(s)
}

// Delete removes a session. It reports whether the session existed.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	m.logger.Info("Session deleted", "id", id, "total", len(m.sessions))
	return true
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed.
func (m *Manager) Sweep() int {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if idle := s.idle(now); idle > m.ttl {
			delete(m.sessions, id)
			removed++
			m.logger.Debug("Session expired", "id", id, "idle", idle)
		}
	}
	if removed > 0 {
		m.logger.Info("Swept idle sessions", "removed", removed, "total", len(m.sessions))
	}
	return removed
}

// Run sweeps every interval until ctx is cancelled
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := m.clock.NewTicker(interval, "session", "sweep")
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Sweep()
		}
	}
}
