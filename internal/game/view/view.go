// Package view projeta o estado de uma sessão para um espectador específico.
package view

import (
	"castle/internal/game/card"
	"castle/internal/game/deck"
	"castle/internal/game/match"
)

// CardView é uma carta visível.
type CardView struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
	Cost int    `json:"cost"`
}

// ZoneView sempre traz a contagem; Cards é null quando o conteúdo é oculto.
type ZoneView struct {
	Count int        `json:"count"`
	Cards []CardView `json:"cards"`
}

// PlayerView é o placar público de um assento.
type PlayerView struct {
	Seat         match.SeatID `json:"seat"`
	Connected    bool         `json:"connected"`
	Tower        int          `json:"towerStrength"`
	Wall         int          `json:"wallStrength"`
	Generators   int          `json:"generators"`
	Resources    int          `json:"spendingResources"`
	DrawsLeft    int          `json:"drawsLeft"`
	DiscardsLeft int          `json:"discardsLeft"`
	TimeLeftMS   int64        `json:"timeLeft"`
}

// DelayedView mostra quando e de onde vem um efeito agendado.
type DelayedView struct {
	Turn   int          `json:"turn"`
	Owner  match.SeatID `json:"owner"`
	Source string       `json:"source"`
}

// MaskedSession é o snapshot completo enviado em gameUpdated.
type MaskedSession struct {
	SessionID      string                    `json:"sessionId"`
	Viewer         match.SeatID              `json:"viewer,omitempty"`
	Players        []PlayerView              `json:"players"`
	Decks          map[match.SeatID]ZoneView `json:"decks"`
	Hands          map[match.SeatID]ZoneView `json:"hands"`
	Battlefields   map[match.SeatID]ZoneView `json:"battlefields"`
	Graveyards     map[match.SeatID]ZoneView `json:"graveyards"`
	CurrentPlayer  match.SeatID              `json:"currentPlayer"`
	State          match.Lifecycle           `json:"state"`
	TurnNumber     int                       `json:"turnNumber"`
	Version        uint64                    `json:"version"`
	DelayedEffects []DelayedView             `json:"delayedEffects"`
}

// Project monta a visão de viewer. Não altera a sessão: todo slice e mapa
// do resultado é novo. Baralhos nunca mostram conteúdo; mãos só para o dono.
func Project(s *match.Session, viewer match.SeatID) MaskedSession {
	out := MaskedSession{
		SessionID:      s.ID,
		Viewer:         viewer,
		Players:        make([]PlayerView, 0, len(s.Seats)),
		Decks:          make(map[match.SeatID]ZoneView, len(s.Seats)),
		Hands:          make(map[match.SeatID]ZoneView, len(s.Seats)),
		Battlefields:   make(map[match.SeatID]ZoneView, len(s.Seats)),
		Graveyards:     make(map[match.SeatID]ZoneView, len(s.Seats)),
		CurrentPlayer:  s.CurrentTurn,
		State:          s.State,
		TurnNumber:     s.TurnNumber,
		Version:        s.Version,
		DelayedEffects: make([]DelayedView, 0, len(s.Delayed)),
	}

	for _, st := range s.Seats {
		out.Players = append(out.Players, PlayerView{
			Seat:         st.ID,
			Connected:    st.Connected(),
			Tower:        st.Tower,
			Wall:         st.Wall,
			Generators:   st.Generators,
			Resources:    st.Resources,
			DrawsLeft:    st.DrawsLeft,
			DiscardsLeft: st.DiscardsLeft,
			TimeLeftMS:   st.TimeLeft.Milliseconds(),
		})
		out.Decks[st.ID] = hidden(st.Zones.Deck())
		if st.ID == viewer {
			out.Hands[st.ID] = visible(st.Zones.Hand())
		} else {
			out.Hands[st.ID] = hidden(st.Zones.Hand())
		}
		out.Battlefields[st.ID] = visible(st.Zones.Battlefield())
		out.Graveyards[st.ID] = visible(st.Zones.Graveyard())
	}

	for _, d := range s.Delayed {
		out.DelayedEffects = append(out.DelayedEffects, DelayedView{Turn: d.Turn, Owner: d.Owner, Source: d.Source})
	}
	return out
}

func hidden(p *deck.Pile) ZoneView {
	return ZoneView{Count: p.Len()}
}

func visible(p *deck.Pile) ZoneView {
	zv := ZoneView{Count: p.Len(), Cards: make([]CardView, 0, p.Len())}
	for _, e := range *p {
		zv.Cards = append(zv.Cards, cardView(e))
	}
	return zv
}

func cardView(e *card.Entity) CardView {
	return CardView{ID: e.ID, Key: e.Card.Key(), Name: e.Name(), Cost: e.Cost()}
}
