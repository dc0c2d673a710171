package match

import (
	"castle/internal/game/card"
	"context"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Tempo máximo de execução de um script de carta.
const luaTimeout = 200 * time.Millisecond

// runLua executa o script de uma carta numa VM nova, sem acesso a arquivos
// ou ao sistema. As funções expostas operam sobre esta sessão.
func (s *Session) runLua(actor SeatID, source, script string, res *Result) error {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			return fmt.Errorf("open lua lib %s: %w", lib.name, err)
		}
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), luaTimeout)
	defer cancel()
	L.SetContext(ctx)

	s.registerLuaAPI(L, actor, source, res)
	if err := L.DoString(script); err != nil {
		return fmt.Errorf("lua: %w", err)
	}
	return nil
}

func (s *Session) registerLuaAPI(L *lua.LState, actor SeatID, source string, res *Result) {
	seatArg := func(L *lua.LState) *Seat {
		st := s.seat(SeatID(L.CheckString(1)))
		if st == nil {
			L.ArgError(1, "unknown seat")
		}
		return st
	}
	// counter expõe um contador: soma n (pode ser 0) e devolve o valor novo.
	counter := func(apply func(st *Seat, n int), read func(st *Seat) int) lua.LGFunction {
		return func(L *lua.LState) int {
			st := seatArg(L)
			apply(st, L.CheckInt(2))
			L.Push(lua.LNumber(read(st)))
			return 1
		}
	}

	L.SetGlobal("actor", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(actor))
		return 1
	}))
	L.SetGlobal("opponent", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(Opponent(actor)))
		return 1
	}))
	L.SetGlobal("tower", L.NewFunction(counter((*Seat).addTower, func(st *Seat) int { return st.Tower })))
	L.SetGlobal("wall", L.NewFunction(counter((*Seat).addWall, func(st *Seat) int { return st.Wall })))
	L.SetGlobal("damage", L.NewFunction(counter((*Seat).takeDamage, func(st *Seat) int { return st.Tower })))
	L.SetGlobal("generators", L.NewFunction(counter((*Seat).addGenerators, func(st *Seat) int { return st.Generators })))
	L.SetGlobal("resources", L.NewFunction(counter((*Seat).addResources, func(st *Seat) int { return st.Resources })))

	L.SetGlobal("schedule", L.NewFunction(func(L *lua.LState) int {
		turns := L.CheckInt(1)
		e := card.Effect{
			ID:     L.CheckString(2),
			Amount: L.CheckInt(3),
			Target: L.OptString(4, card.TargetSelf),
		}
		if err := card.CheckDelay(turns); err != nil {
			L.ArgError(1, err.Error())
		}
		if e.ID == card.EffectDelayed || e.ID == card.EffectLua {
			L.ArgError(2, "effect cannot be scheduled from a script")
		}
		if err := card.ValidateEffect(e); err != nil {
			L.ArgError(2, err.Error())
		}
		L.Push(lua.LNumber(s.schedule(actor, turns, source, e)))
		return 1
	}))
	L.SetGlobal("notify", L.NewFunction(func(L *lua.LState) int {
		res.notifyAll(L.CheckString(1))
		return 0
	}))
}
