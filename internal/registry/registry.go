// Package registry tracks online user connections for the real-time
// layer. It is an injected service, not a module-level singleton, so
// handlers and the event consumer can be tested against it and the
// transport can be swapped.
package registry

import "sync"

// Conn is one live client connection. The transport behind Send is out
// of scope here; websocket and SSE writers both satisfy it.
type Conn interface {
	Send(payload []byte) error
}

type Registry struct {
	mu    sync.RWMutex
	conns map[string][]Conn
}

func New() *Registry {
	return &Registry{conns: make(map[string][]Conn)}
}

func (r *Registry) Register(userID string, c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[userID] = append(r.conns[userID], c)
}

func (r *Registry) Unregister(userID string, c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conns := r.conns[userID]
	for i, cc := range conns {
		if cc == c {
			r.conns[userID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(r.conns[userID]) == 0 {
		delete(r.conns, userID)
	}
}

// Send pushes payload to every connection of userID and reports whether
// the user was online. Send errors drop silently; delivery is at most
// once by design.
func (r *Registry) Send(userID string, payload []byte) bool {
	r.mu.RLock()
	conns := append([]Conn(nil), r.conns[userID]...)
	r.mu.RUnlock()
	for _, c := range conns {
		_ = c.Send(payload)
	}
	return len(conns) > 0
}

func (r *Registry) Online(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns[userID]) > 0
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
