package session

import (
	"castle/internal/game/match"
	"castle/internal/session/message"
	"errors"
	"sync"
)

var errConnectionClosed = errors.New("connection closed")

// Binding liga uma conexão a um assento de uma sessão. É só uma referência
// de busca: a conexão não controla a vida da sessão.
type Binding struct {
	SessionID string
	Seat      match.SeatID // vazio enquanto o join/rejoin ainda está na fila da sala
}

// Presence guarda as conexões vivas e os vínculos conexão <-> (sessão, assento).
// É lida pelas goroutines das salas e escrita pelo Hub, daí o lock.
type Presence struct {
	mu        sync.RWMutex
	conns     map[string]message.MessageSender
	bindings  map[string]Binding
	bySession map[string]map[string]struct{}
}

func NewPresence() *Presence {
	return &Presence{
		conns:     make(map[string]message.MessageSender),
		bindings:  make(map[string]Binding),
		bySession: make(map[string]map[string]struct{}),
	}
}

// Add registra uma conexão recém aberta.
func (p *Presence) Add(c message.MessageSender) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conns[c.ID()] = c
}

// Remove esquece a conexão e devolve o vínculo que ela tinha.
func (p *Presence) Remove(connID string) (Binding, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.conns, connID)
	return p.unbindLocked(connID)
}

// Conn devolve uma conexão viva.
func (p *Presence) Conn(connID string) (message.MessageSender, bool) {
	if connID == "" {
		return nil, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.conns[connID]
	return c, ok
}

// Claim reserva a conexão para uma sessão antes de ela ocupar um assento.
// Falha se a conexão já fechou ou se está em outra sessão. fresh indica que
// a reserva foi criada agora (e deve ser desfeita se o assento não sair);
// caso contrário prev é o vínculo que ela já tinha nesta sessão.
func (p *Presence) Claim(connID, sessionID string) (prev Binding, fresh bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.conns[connID]; !ok {
		return Binding{}, false, errConnectionClosed
	}
	if b, ok := p.bindings[connID]; ok {
		if b.SessionID != sessionID {
			return b, false, match.Errorf(match.ErrBadRequest, "Already seated in game %s", b.SessionID)
		}
		return b, false, nil
	}
	p.bindLocked(connID, Binding{SessionID: sessionID})
	return Binding{}, true, nil
}

// Bind liga a conexão ao assento. Uma conexão fica em no máximo uma sessão:
// vínculo com outra sessão é recusado.
func (p *Presence) Bind(connID string, b Binding) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.conns[connID]; !ok {
		return errConnectionClosed
	}
	if old, ok := p.bindings[connID]; ok && old.SessionID != b.SessionID {
		return match.Errorf(match.ErrBadRequest, "Already seated in game %s", old.SessionID)
	}
	p.bindLocked(connID, b)
	return nil
}

func (p *Presence) bindLocked(connID string, b Binding) {
	p.bindings[connID] = b
	members, ok := p.bySession[b.SessionID]
	if !ok {
		members = make(map[string]struct{})
		p.bySession[b.SessionID] = members
	}
	members[connID] = struct{}{}
}

// Unbind desfaz o vínculo mas mantém a conexão.
func (p *Presence) Unbind(connID string) (Binding, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unbindLocked(connID)
}

func (p *Presence) unbindLocked(connID string) (Binding, bool) {
	b, ok := p.bindings[connID]
	if !ok {
		return Binding{}, false
	}
	delete(p.bindings, connID)
	if members := p.bySession[b.SessionID]; members != nil {
		delete(members, connID)
		if len(members) == 0 {
			delete(p.bySession, b.SessionID)
		}
	}
	return b, true
}

// Lookup devolve o vínculo de uma conexão.
func (p *Presence) Lookup(connID string) (Binding, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	b, ok := p.bindings[connID]
	return b, ok
}

// Forget desfaz todos os vínculos de uma sessão recolhida.
func (p *Presence) Forget(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for connID := range p.bySession[sessionID] {
		delete(p.bindings, connID)
	}
	delete(p.bySession, sessionID)
}

// Len é o número de conexões vivas.
func (p *Presence) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.conns)
}
