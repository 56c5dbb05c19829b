package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/sokoban/game/engine"
	"github.com/wricardo/mcp-training/sokoban/game/service"
)

var (
	ErrSessionNotFound      = service.ErrSessionNotFound
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// maxIDAttempts bounds retries when a generated id is already taken
const maxIDAttempts = 16

// Manager keeps the sessions being played in memory, keyed by lower-case id.
// With a store attached, every change is written through and sessions that
// are only on disk are loaded on first use.
type Manager struct {
	sessions map[string]*service.Session
	store    SessionPersistence
	mu       sync.RWMutex
}

// NewManager creates an in-memory session manager
func NewManager() *Manager {
	return NewManagerWithPersistence(nil)
}

// NewManagerWithPersistence creates a session manager that writes through to
// store. A nil store keeps sessions in memory only.
func NewManagerWithPersistence(store SessionPersistence) *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
		store:    store,
	}
}

func key(id string) string {
	return strings.ToLower(id)
}

// lookup reads the in-memory table; callers hold m.mu.
func (m *Manager) lookup(id string) (*service.Session, bool) {
	sess, ok := m.sessions[key(id)]
	return sess, ok
}

// write saves sess to the store, logging instead of failing since the
// in-memory copy stays authoritative.
func (m *Manager) write(sess *service.Session, reason string) {
	if m.store == nil {
		return
	}
	if err := m.store.Save(sess); err != nil {
		log.Printf("[SESSION] Warning: failed to persist %s after %s: %v", sess.ID, reason, err)
	}
}

// Create starts a session on level. An empty id gets a random 4-character
// hex id.
func (m *Manager) Create(id, levelID string, level *engine.LevelConfig) (*service.Session, error) {
	if id != "" && !validSessionID(id) {
		return nil, ErrInvalidSessionID
	}

	eng, err := engine.NewEngine(level)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		if id, err = m.freeID(); err != nil {
			return nil, err
		}
	} else if m.taken(id) {
		return nil, ErrSessionAlreadyExists
	}

	now := time.Now()
	sess := &service.Session{
		ID:             id,
		LevelID:        levelID,
		Engine:         eng,
		Level:          level,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[key(id)] = sess
	m.write(sess, "create")

	return sess, nil
}

// Get returns a session by id, ignoring case. Sessions found only in the
// store are loaded and cached.
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	sess, ok := m.lookup(id)
	m.mu.RUnlock()
	if ok {
		return sess, nil
	}

	if m.store == nil || !m.store.Exists(id) {
		return nil, ErrSessionNotFound
	}

	loaded, err := m.store.Load(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// another caller may have loaded it meanwhile
	if sess, ok := m.lookup(id); ok {
		return sess, nil
	}
	m.sessions[key(id)] = loaded
	return loaded, nil
}

// GetOrCreate returns the session with id, creating it on level if missing
func (m *Manager) GetOrCreate(id, levelID string, level *engine.LevelConfig) (*service.Session, error) {
	sess, err := m.Get(id)
	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(id, levelID, level)
	}
	return sess, err
}

// List returns the sessions held in memory
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		result = append(result, sess)
	}
	return result
}

// Count returns the number of sessions held in memory
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Delete removes a session from memory and from the store. It fails with
// ErrSessionNotFound only when neither holds it.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, inMemory := m.lookup(id)
	delete(m.sessions, key(id))

	if m.store != nil && m.store.Exists(id) {
		if err := m.store.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
		return nil
	}
	if !inMemory {
		return ErrSessionNotFound
	}
	return nil
}

// UpdateLastAccessed marks a session as used now
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.lookup(id)
	if !ok {
		return ErrSessionNotFound
	}
	sess.LastAccessedAt = time.Now()
	m.write(sess, "access")
	return nil
}

// Save writes one session to the store
func (m *Manager) Save(id string) error {
	if m.store == nil {
		return nil
	}

	m.mu.RLock()
	sess, ok := m.lookup(id)
	m.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}
	return m.store.Save(sess)
}

// CleanupExpiredSessions evicts sessions idle for longer than maxAge. Stored
// copies are kept, so an evicted session can still be loaded again.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for k, sess := range m.sessions {
		if sess.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, k)
			removed++
		}
	}
	return removed
}

// LoadPersistedSessions fills memory from the store at startup and returns how
// many sessions were restored. Unreadable sessions are logged and skipped.
func (m *Manager) LoadPersistedSessions() (int, error) {
	if m.store == nil {
		return 0, nil
	}

	ids, err := m.store.ListAll()
	if err != nil {
		return 0, fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	restored := 0
	for _, id := range ids {
		if _, ok := m.lookup(id); ok {
			continue
		}
		sess, err := m.store.Load(id)
		if err != nil {
			log.Printf("[SESSION] Warning: skipping stored session %s: %v", id, err)
			continue
		}
		m.sessions[key(id)] = sess
		restored++
	}

	if restored > 0 {
		log.Printf("[SESSION] restored %d sessions from storage", restored)
	}
	return restored, nil
}

// SaveAllSessions writes every in-memory session to the store
func (m *Manager) SaveAllSessions() error {
	if m.store == nil {
		return nil
	}

	var errs []error
	for _, sess := range m.List() {
		if err := m.store.Save(sess); err != nil {
			errs = append(errs, fmt.Errorf("session %s: %w", sess.ID, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to save %d sessions: %w", len(errs), errors.Join(errs...))
	}
	return nil
}

// PruneOrphans drops in-memory sessions whose stored copy has been removed
// out of band (a deleted session file or row). It returns the number pruned.
func (m *Manager) PruneOrphans() int {
	if m.store == nil {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	pruned := 0
	for k, sess := range m.sessions {
		if m.store.Exists(sess.ID) {
			continue
		}
		delete(m.sessions, k)
		pruned++
		log.Printf("[SESSION] pruned %s from memory (stored copy deleted)", sess.ID)
	}
	return pruned
}

// taken reports whether id is used in memory or in the store; callers hold
// m.mu.
func (m *Manager) taken(id string) bool {
	if _, ok := m.lookup(id); ok {
		return true
	}
	return m.store != nil && m.store.Exists(id)
}

// freeID picks a random 4-character hex id not yet taken; callers hold m.mu.
func (m *Manager) freeID() (string, error) {
	buf := make([]byte, 2)
	for range maxIDAttempts {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate session id: %w", err)
		}
		if id := hex.EncodeToString(buf); !m.taken(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("no free session id after %d attempts", maxIDAttempts)
}

// validSessionID accepts letters, digits, '-' and '_', up to 64 characters
func validSessionID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
