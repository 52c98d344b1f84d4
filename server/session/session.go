// Package session keeps the live conversations shared by the front-ends.
// Histories live for the lifetime of the process only.
package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/safartravel/safar/plugin/llm"
	"github.com/safartravel/safar/server/agent"
	"github.com/safartravel/safar/server/prompt"
)

var ErrNotFound = errors.New("session not found")

// AgentConfig builds one Agent per session, each with a system prompt dated
// at creation time.
type AgentConfig struct {
	Model    llm.Model
	Registry *agent.Registry
	MaxSteps int
	Logger   *slog.Logger
	Observer agent.Observer
	Now      func() time.Time
}

func (c AgentConfig) NewAgent() *agent.Agent {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return agent.New(c.Model, c.Registry, prompt.System(now()),
		agent.WithMaxSteps(c.MaxSteps),
		agent.WithLogger(c.Logger),
		agent.WithObserver(c.Observer),
	)
}

type Session struct {
	UID       string
	Owner     string
	CreatedAt time.Time
	Agent     *agent.Agent
}

// Listener is told when sessions open and close.
type Listener interface {
	SessionOpened()
	SessionClosed()
}

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	newAgent func() *agent.Agent
	listener Listener
}

func NewManager(newAgent func() *agent.Agent, listener Listener) *Manager {
	return &Manager{sessions: make(map[string]*Session), newAgent: newAgent, listener: listener}
}

// Create opens a session owned by owner. Owner may be empty when
// authentication is disabled.
func (m *Manager) Create(owner string) *Session {
	sess := &Session{
		UID:       shortuuid.New(),
		Owner:     owner,
		CreatedAt: time.Now(),
		Agent:     m.newAgent(),
	}
	m.mu.Lock()
	m.sessions[sess.UID] = sess
	m.mu.Unlock()
	if m.listener != nil {
		m.listener.SessionOpened()
	}
	return sess
}

// Get returns the session uid if it belongs to owner.
func (m *Manager) Get(uid, owner string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[uid]
	if !ok || sess.Owner != owner {
		return nil, ErrNotFound
	}
	return sess, nil
}

func (m *Manager) Delete(uid, owner string) error {
	m.mu.Lock()
	sess, ok := m.sessions[uid]
	if !ok || sess.Owner != owner {
		m.mu.Unlock()
		return ErrNotFound
	}
	delete(m.sessions, uid)
	m.mu.Unlock()
	if m.listener != nil {
		m.listener.SessionClosed()
	}
	return nil
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
