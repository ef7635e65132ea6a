package compiler

import (
	"go.uber.org/zap"

	"github.com/wippyai/ecs-bridge/ecs"
)

// StateWatcher returns the system that turns host writes to a state
// component into transitions of the matching state machine. Only a single
// changed entity is honoured per run; an out-of-range ordinal is logged and
// dropped.
func (c *Compiled) StateWatcher(name string) ecs.SystemFunc {
	return func(ctx *ecs.Ctx) {
		w := ctx.World
		id, ok := w.Lookup(name)
		if !ok {
			return
		}
		st, ok := w.State(name)
		if !ok {
			return
		}

		var changed []ecs.Entity
		for _, e := range w.Query(id) {
			if ctx.Changed(e, id) {
				changed = append(changed, e)
			}
		}
		if len(changed) != 1 {
			if len(changed) > 1 {
				ctx.Log.Debug("state written by several entities, ignoring",
					zap.String("state", name),
					zap.Int("entities", len(changed)))
			}
			return
		}

		v, _ := w.Get(changed[0], id)
		ctx.Log.Debug("switching state", zap.String("state", name), zap.Uint8("ordinal", v[0]))
		if err := st.SetNext(v[0]); err != nil {
			ctx.Log.Warn("dropping state value", zap.String("state", name), zap.Error(err))
		}
	}
}
