package card

import (
	"fmt"
)

// Ids de efeito conhecidos pelo motor de partidas.
const (
	EffectBuildWall         = "build_wall"
	EffectBuildTower        = "build_tower"
	EffectDamage            = "damage"
	EffectDamageTower       = "damage_tower"
	EffectAddGenerator      = "add_generator"
	EffectSabotageGenerator = "sabotage_generator"
	EffectGainResources     = "gain_resources"
	EffectDelayed           = "delayed"
	EffectLua               = "lua"
)

// Alvos de um efeito. Vazio equivale a TargetSelf.
const (
	TargetSelf     = "self"
	TargetOpponent = "opponent"
)

// Tipo para funções de validação
type cardValidator func(*Card) error

var allowedEffects = map[string]struct{}{
	EffectBuildWall:         {},
	EffectBuildTower:        {},
	EffectDamage:            {},
	EffectDamageTower:       {},
	EffectAddGenerator:      {},
	EffectSabotageGenerator: {},
	EffectGainResources:     {},
	EffectDelayed:           {},
	EffectLua:               {},
}

var allowedTargets = map[string]struct{}{
	"":             {},
	TargetSelf:     {},
	TargetOpponent: {},
}

// ---- Funções de validação ----

func validateKey(c *Card) error {
	if c.key == "" {
		return fmt.Errorf("card key must not be empty")
	}
	return nil
}

func validateName(c *Card) error {
	if c.name == "" {
		return fmt.Errorf("card %s has no display name", c.key)
	}
	return nil
}

func validateCost(c *Card) error {
	if c.cost < 0 {
		return fmt.Errorf("invalid cost for card %s: %d (must be >= 0)", c.key, c.cost)
	}
	return nil
}

func validateEffect(c *Card) error {
	if err := checkEffect(c.effect); err != nil {
		return fmt.Errorf("card %s: %w", c.key, err)
	}
	return nil
}

func checkEffect(e Effect) error {
	if _, ok := allowedEffects[e.ID]; !ok {
		return fmt.Errorf("unknown effect id %q", e.ID)
	}
	if _, ok := allowedTargets[e.Target]; !ok {
		return fmt.Errorf("invalid effect target %q", e.Target)
	}
	switch e.ID {
	case EffectDelayed:
		if err := CheckDelay(e.Delay); err != nil {
			return err
		}
		if e.Then == nil {
			return fmt.Errorf("delayed effect has nothing to run")
		}
		return checkEffect(*e.Then)
	case EffectLua:
		if e.Script == "" {
			return fmt.Errorf("lua effect without script")
		}
	}
	return nil
}

// CheckDelay exige um número par e positivo de turnos: o efeito agendado
// roda com o assento da vez, que só é o de quem jogou em turnos pares.
func CheckDelay(turns int) error {
	if turns <= 0 || turns%2 != 0 {
		return fmt.Errorf("delay must be a positive even number of turns, got %d", turns)
	}
	return nil
}

// ValidateEffect verifica um efeito criado fora do catálogo (ex.: agendado por script).
func ValidateEffect(e Effect) error {
	return checkEffect(e)
}
