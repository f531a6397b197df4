package channel

import (
	"sync"
)

// Session 一条已鉴权 WebSocket 连接的句柄，归属于唯一用户
type Session struct {
	UserID uint64
}

// Registry 进程内在线会话注册表。
// 成员关系是纯临时态：连接断开即销毁，不落任何持久化。
type Registry struct {
	mu       sync.RWMutex
	sessions map[uint64]map[*Session]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[uint64]map[*Session]struct{}),
	}
}

// Add 注册一条新会话并返回句柄
func (r *Registry) Add(userID uint64) *Session {
	s := &Session{UserID: userID}

	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.sessions[userID]
	if !ok {
		set = make(map[*Session]struct{})
		r.sessions[userID] = set
	}
	set[s] = struct{}{}
	return s
}

// Remove 注销会话，重复注销为空操作
func (r *Registry) Remove(s *Session) {
	if s == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.sessions[s.UserID]
	if !ok {
		return
	}
	delete(set, s)
	if len(set) == 0 {
		delete(r.sessions, s.UserID)
	}
}

// IsOnline 用户当前是否有在线会话
func (r *Registry) IsOnline(userID uint64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions[userID]) > 0
}

// SessionCount 用户当前在线会话数
func (r *Registry) SessionCount(userID uint64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions[userID])
}
