package match

import "fmt"

// CheckIntegrity verifica os invariantes das zonas: cada entidade em exatamente
// uma zona do dono e o total de cartas de cada assento igual ao baralho inicial.
func (s *Session) CheckIntegrity() error {
	seen := make(map[string]SeatID)
	for _, st := range s.Seats {
		all := st.Zones.All()
		for _, e := range all {
			if owner, dup := seen[e.ID]; dup {
				return fmt.Errorf("entity %s found in seats %s and %s", e.ID, owner, st.ID)
			}
			seen[e.ID] = st.ID
			if _, n := st.Zones.Locate(e.ID); n != 1 {
				return fmt.Errorf("entity %s of seat %s appears %d times", e.ID, st.ID, n)
			}
		}
		if s.catalog != nil && len(all) != s.rules.DeckSize {
			return fmt.Errorf("seat %s owns %d entities, expected %d", st.ID, len(all), s.rules.DeckSize)
		}
	}
	return nil
}
