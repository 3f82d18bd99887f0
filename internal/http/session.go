package http

import (
	"sync"
	"time"

	"github.com/micromvc-go/pkg/utils"
)

// Session 单个会话的数据
type Session interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Delete(key string)
}

// SessionStore 会话存储。Load 只返回存储中已有且未过期的会话，
// 新会话的 ID 由存储自己生成
type SessionStore interface {
	Load(id string) (Session, bool)
	Create() (string, Session)
}

// MemoryStore 进程内会话存储，过期会话定期清理
type MemoryStore struct {
	sessions  map[string]*memorySession
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
	mutex     sync.Mutex
}

// NewMemoryStore 创建内存会话存储，ttl 为 0 表示不过期
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memorySession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Load 获取已有会话，不存在或已过期时返回 false
func (m *MemoryStore) Load(id string) (Session, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := m.now()
	m.sweep(now)

	s, exists := m.sessions[id]
	if !exists {
		return nil, false
	}
	if m.expired(s, now) {
		delete(m.sessions, id)
		return nil, false
	}
	s.touched = now
	return s, true
}

// Create 以新生成的 ID 创建会话
func (m *MemoryStore) Create() (string, Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := m.now()
	m.sweep(now)

	id := utils.Token()
	s := &memorySession{values: make(map[string]any), touched: now}
	m.sessions[id] = s
	return id, s
}

// Len 当前会话数
func (m *MemoryStore) Len() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.sessions)
}

// sweep 每隔一个 ttl 删除全部过期会话，调用方持有锁
func (m *MemoryStore) sweep(now time.Time) {
	if m.ttl <= 0 || now.Sub(m.lastSweep) < m.ttl {
		return
	}
	for id, s := range m.sessions {
		if m.expired(s, now) {
			delete(m.sessions, id)
		}
	}
	m.lastSweep = now
}

func (m *MemoryStore) expired(s *memorySession, now time.Time) bool {
	return m.ttl > 0 && now.Sub(s.touched) > m.ttl
}

type memorySession struct {
	values  map[string]any
	touched time.Time
	mutex   sync.RWMutex
}

func (s *memorySession) Get(key string) (any, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *memorySession) Set(key string, value any) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.values[key] = value
}

func (s *memorySession) Delete(key string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.values, key)
}
