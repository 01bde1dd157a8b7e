package game

import (
	"strings"
	"sync"
)

// Registry is the process-wide directory of active games, keyed by join
// code and by hosting session. It owns its games exclusively and holds
// no business rules; those live in the service handlers. Constructed at
// process start and injected, never a package-level variable, so tests
// build their own.
type Registry struct {
	mu     sync.RWMutex
	byCode map[string]*Game
	byHost map[string]*Game
}

func NewRegistry() *Registry {
	return &Registry{
		byCode: make(map[string]*Game),
		byHost: make(map[string]*Game),
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(code)
}

func (r *Registry) Register(g *Game) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byCode[normalizeCode(g.Code())] = g
	r.byHost[g.HostSession()] = g
}

func (r *Registry) Unregister(g *Game) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byCode, normalizeCode(g.Code()))
	delete(r.byHost, g.HostSession())
}

// FindByCode matches join codes case-insensitively.
func (r *Registry) FindByCode(code string) (*Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.byCode[normalizeCode(code)]
	return g, ok
}

func (r *Registry) FindByHost(sessionId string) (*Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.byHost[sessionId]
	return g, ok
}

func (r *Registry) FindByPlayerSession(sessionId string) (*Game, bool) {
	for _, g := range r.snapshot() {
		if g.PlayerBySession(sessionId) != nil {
			return g, true
		}
	}
	return nil, false
}

// HasSession reports whether the session is in any game, as host or
// player.
func (r *Registry) HasSession(sessionId string) bool {
	if _, hosting := r.FindByHost(sessionId); hosting {
		return true
	}
	for _, g := range r.snapshot() {
		if g.HasConnectedSocket(sessionId) {
			return true
		}
	}
	return false
}

// snapshot copies the game set so per-game locks are never taken while
// holding the registry lock.
func (r *Registry) snapshot() []*Game {
	r.mu.RLock()
	defer r.mu.RUnlock()
	games := make([]*Game, 0, len(r.byCode))
	for _, g := range r.byCode {
		games = append(games, g)
	}
	return games
}
