package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/MesaLista/mesabot-backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// Session defaults, overridable through SessionConfig.
const (
	DefaultMaxMessages    = 30
	DefaultSessionTimeout = 30 * time.Minute
)

// SessionConfig bounds each conversation's history.
type SessionConfig struct {
	MaxMessages int
	Timeout     time.Duration
}

type session struct {
	mu           sync.Mutex
	messages     []models.Message
	lastActivity time.Time
}

// SessionManager keeps one bounded message log per phone number.
// History past the idle timeout is discarded before any operation runs,
// so a message after a long silence starts a fresh conversation.
// Operations on the same key are serialized; different keys do not
// block each other.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*session
	config   SessionConfig

	// Optional mirror of each session to Redis, for inspection across
	// instances. Nil disables it.
	redisClient *redis.Client

	now func() time.Time
}

// NewSessionManager creates a session manager. Zero config fields fall
// back to the defaults; redisClient may be nil.
func NewSessionManager(config SessionConfig, redisClient *redis.Client) *SessionManager {
	if config.MaxMessages <= 0 {
		config.MaxMessages = DefaultMaxMessages
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultSessionTimeout
	}
	return &SessionManager{
		sessions:    make(map[string]*session),
		config:      config,
		redisClient: redisClient,
		now:         time.Now,
	}
}

// lockSession returns the session for key with its lock held. The
// caller must Unlock it. Expired history is discarded here, before the
// caller's operation applies.
func (m *SessionManager) lockSession(key string) *session {
	m.mu.Lock()
	s, exists := m.sessions[key]
	if !exists {
		s = &session{lastActivity: m.now()}
		m.sessions[key] = s
	}
	m.mu.Unlock()

	s.mu.Lock()
	if len(s.messages) > 0 && m.now().Sub(s.lastActivity) > m.config.Timeout {
		log.Printf("Session %s expired after %v idle, starting fresh", key, m.config.Timeout)
		s.messages = nil
	}
	return s
}

// Append adds a message to the session, evicting the oldest messages
// when the history exceeds MaxMessages.
func (m *SessionManager) Append(key string, msg models.Message) {
	s := m.lockSession(key)
	defer s.mu.Unlock()

	m.append(s, msg)
	s.lastActivity = m.now()
	m.mirror(key, s.messages)
}

// AppendTurn adds a user message and the assistant's reply as one unit,
// so no reader observes the history with only half the exchange.
func (m *SessionManager) AppendTurn(key string, userMsg, assistantMsg models.Message) {
	s := m.lockSession(key)
	defer s.mu.Unlock()

	m.append(s, userMsg)
	m.append(s, assistantMsg)
	s.lastActivity = m.now()
	m.mirror(key, s.messages)
}

func (m *SessionManager) append(s *session, msg models.Message) {
	s.messages = append(s.messages, msg)
	if overflow := len(s.messages) - m.config.MaxMessages; overflow > 0 {
		s.messages = append([]models.Message(nil), s.messages[overflow:]...)
	}
}

// Get returns a copy of the session's history, oldest first.
func (m *SessionManager) Get(key string) []models.Message {
	s := m.lockSession(key)
	defer s.mu.Unlock()

	s.lastActivity = m.now()
	history := make([]models.Message, len(s.messages))
	copy(history, s.messages)
	return history
}

// Clear drops the session's history immediately.
func (m *SessionManager) Clear(key string) {
	m.mu.Lock()
	delete(m.sessions, key)
	m.mu.Unlock()

	if m.redisClient != nil {
		if err := m.redisClient.Del(context.Background(), sessionRedisKey(key)).Err(); err != nil {
			log.Printf("Failed to clear session mirror for %s: %v", key, err)
		}
	}
}

// StartCleanup evicts expired sessions periodically until ctx is done.
// Expiry is also enforced lazily on access; this just frees memory for
// conversations that never come back.
func (m *SessionManager) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.evictExpired()
			}
		}
	}()
}

func (m *SessionManager) evictExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, s := range m.sessions {
		s.mu.Lock()
		expired := m.now().Sub(s.lastActivity) > m.config.Timeout
		s.mu.Unlock()
		if expired {
			delete(m.sessions, key)
		}
	}
}

// mirror writes the history to Redis with the session timeout as TTL.
// Failures are logged and ignored; Redis is a mirror, not the source of
// truth.
func (m *SessionManager) mirror(key string, messages []models.Message) {
	if m.redisClient == nil {
		return
	}

	data, err := json.Marshal(messages)
	if err != nil {
		log.Printf("Failed to marshal session %s for mirroring: %v", key, err)
		return
	}
	if err := m.redisClient.Set(context.Background(), sessionRedisKey(key), data, m.config.Timeout).Err(); err != nil {
		log.Printf("Failed to mirror session %s to Redis: %v", key, err)
	}
}

func sessionRedisKey(key string) string {
	return "session:" + key
}
