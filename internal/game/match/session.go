package match

import (
	"castle/internal/game/card"
	"castle/internal/game/deck"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// SeatID identifica um dos dois lugares da partida.
type SeatID string

const (
	SeatX SeatID = "X"
	SeatO SeatID = "O"
)

// Opponent devolve o outro assento.
func Opponent(id SeatID) SeatID {
	if id == SeatX {
		return SeatO
	}
	return SeatX
}

// Lifecycle é a fase de topo da sessão.
type Lifecycle string

const (
	StateWaiting Lifecycle = "waiting"
	StateOngoing Lifecycle = "ongoing"
	StateDraw    Lifecycle = "draw"
)

// WinsFor monta o estado terminal de vitória de um assento ("X-wins").
func WinsFor(id SeatID) Lifecycle {
	return Lifecycle(string(id) + "-wins")
}

func (l Lifecycle) IsTerminal() bool {
	return l != StateWaiting && l != StateOngoing
}

// Rules são os parâmetros numéricos da variante.
type Rules struct {
	DeckSize           int
	HandLimit          int
	StartingTower      int
	StartingWall       int
	StartingGenerators int
	StartingResources  int
	TurnTimeBudget     time.Duration
	ReconnectGrace     time.Duration
}

func DefaultRules() Rules {
	return Rules{
		DeckSize:           30,
		HandLimit:          5,
		StartingTower:      20,
		StartingWall:       5,
		StartingGenerators: 2,
		StartingResources:  3,
		TurnTimeBudget:     10 * time.Minute,
		ReconnectGrace:     2 * time.Minute,
	}
}

// Seat é o estado de um jogador. Só o Session altera.
type Seat struct {
	ID             SeatID
	ConnectionID   string
	DisconnectedAt time.Time

	Tower      int
	Wall       int
	Generators int
	Resources  int

	DrawsLeft    int
	DiscardsLeft int
	TimeLeft     time.Duration

	Zones *deck.Zones
}

func (st *Seat) Connected() bool { return st.ConnectionID != "" }

// Alive: a força estrutural do assento é a torre.
func (st *Seat) Alive() bool { return st.Tower > 0 }

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func (st *Seat) addTower(n int)      { st.Tower = clamp(st.Tower + n) }
func (st *Seat) addWall(n int)       { st.Wall = clamp(st.Wall + n) }
func (st *Seat) addGenerators(n int) { st.Generators = clamp(st.Generators + n) }
func (st *Seat) addResources(n int)  { st.Resources = clamp(st.Resources + n) }

// takeDamage consome a muralha primeiro e o resto vai para a torre.
func (st *Seat) takeDamage(n int) {
	if n <= 0 {
		return
	}
	absorbed := min(st.Wall, n)
	st.Wall -= absorbed
	st.Tower = clamp(st.Tower - (n - absorbed))
}

// DelayedEffect é um efeito agendado para disparar num turno futuro.
type DelayedEffect struct {
	Turn   int
	Owner  SeatID
	Source string
	Effect card.Effect
}

// Config reúne as dependências de uma sessão.
type Config struct {
	Rules   Rules
	Catalog *card.Catalog
	Rand    *rand.Rand
	Logger  *zap.Logger
}

// Session é o estado autoritativo de uma partida.
// Não é thread-safe: quem serializa o acesso é o Room dono da sessão.
type Session struct {
	ID           string
	Seats        []*Seat
	CurrentTurn  SeatID
	State        Lifecycle
	TurnNumber   int
	LastActivity time.Time
	Delayed      []DelayedEffect
	Version      uint64
	CreatedAt    time.Time
	EndedAt      time.Time

	rules   Rules
	catalog *card.Catalog
	rng     *rand.Rand
	logger  *zap.Logger
}

func NewSession(id string, cfg Config, now time.Time) *Session {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(now.UnixNano()), uint64(len(id))))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		ID:           id,
		CurrentTurn:  SeatX,
		State:        StateWaiting,
		TurnNumber:   1,
		LastActivity: now,
		CreatedAt:    now,
		rules:        cfg.Rules,
		catalog:      cfg.Catalog,
		rng:          rng,
		logger:       logger.With(zap.String("session_id", id)),
	}
}

// Seat procura um assento pelo id.
func (s *Session) Seat(id SeatID) (*Seat, bool) {
	st := s.seat(id)
	return st, st != nil
}

func (s *Session) seat(id SeatID) *Seat {
	for _, st := range s.Seats {
		if st.ID == id {
			return st
		}
	}
	return nil
}

// SeatByConnection procura o assento ligado a uma conexão.
func (s *Session) SeatByConnection(connID string) (*Seat, bool) {
	if connID == "" {
		return nil, false
	}
	for _, st := range s.Seats {
		if st.ConnectionID == connID {
			return st, true
		}
	}
	return nil, false
}

// Connections lista as conexões ligadas no momento.
func (s *Session) Connections() []string {
	var out []string
	for _, st := range s.Seats {
		if st.Connected() {
			out = append(out, st.ConnectionID)
		}
	}
	return out
}
