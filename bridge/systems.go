package bridge

import (
	"go.uber.org/zap"

	"github.com/wippyai/ecs-bridge/compiler"
	"github.com/wippyai/ecs-bridge/ecs"
	"github.com/wippyai/ecs-bridge/wire"
)

// systems owns the reusable encode state of the three per-update bridge
// systems. Arenas keep their storage between updates.
type systems struct {
	ctx      *Context
	markers  *Markers
	tfTag    uint8
	tfMember *compiler.Member
	custom   []customTrack

	createArena *wire.Arena
	updateArena *wire.Arena
	record      []byte
	despawn     []ecs.Entity
	destroyed   []wire.Handle
}

type customTrack struct {
	id  ecs.ComponentID
	tag uint8
}

func newSystems(c *Context, w *ecs.World) (*systems, error) {
	comp := c.compiled
	h, _ := comp.HandleMember()
	handleID, ok := w.Lookup(h.Name)
	if !ok {
		return nil, errNotInstalled(h.Name)
	}
	instID, err := w.Register(InstantiateEntityName, wire.HandleSize)
	if err != nil {
		return nil, err
	}
	destroyID, err := w.Register(DestroyEntityName, wire.HandleSize)
	if err != nil {
		return nil, err
	}

	m := &Markers{
		Handle:        handleID,
		Instantiate:   instID,
		Destroy:       destroyID,
		handleIndex:   h.Fields[0].Offset,
		handleVersion: h.Fields[1].Offset,
	}
	ecs.SetResource(w, m)

	tfTag, _ := comp.TransformTag()
	s := &systems{
		ctx:         c,
		markers:     m,
		tfTag:       tfTag,
		tfMember:    &comp.Builtin.Members[tfTag],
		createArena: wire.NewArena(&comp.Builtin.Union, &comp.Custom.Union),
		updateArena: wire.NewArena(&comp.Builtin.Union, &comp.Custom.Union),
	}
	s.record = make([]byte, s.tfMember.Size)

	for _, mem := range comp.Custom.Members {
		id, ok := w.Lookup(mem.Name)
		if !ok {
			return nil, errNotInstalled(mem.Name)
		}
		s.custom = append(s.custom, customTrack{id: id, tag: mem.Tag})
	}
	return s, nil
}

// transformRecord lays a matrix out as the transform builtin's payload.
func (s *systems) transformRecord(mat []byte) []byte {
	clear(s.record)
	copy(s.record[s.tfMember.Fields[0].Offset:], mat)
	return s.record
}

// create reports every pending instantiation with its local transform and
// removes the marker entities.
func (s *systems) create(ctx *ecs.Ctx) {
	w := ctx.World
	a := s.createArena
	a.Reset()
	s.despawn = s.despawn[:0]

	for _, e := range w.Query(s.markers.Instantiate, ecs.TransformID) {
		inst, _ := w.Get(e, s.markers.Instantiate)
		tf, _ := w.Get(e, ecs.TransformID)
		a.Begin(wire.ReadHandle(inst))
		a.Add(s.tfTag, s.transformRecord(tf))
		s.despawn = append(s.despawn, e)
	}

	batch := a.Finish()
	if cb := s.ctx.create; cb != nil {
		cb(batch)
	}
	for _, e := range s.despawn {
		w.Despawn(e)
	}
	if len(s.despawn) > 0 {
		ctx.Log.Debug("reported instantiations", zap.Int("count", len(s.despawn)))
	}
}

// update reports host-linked entities whose GlobalTransform or project
// components changed since the previous update.
func (s *systems) update(ctx *ecs.Ctx) {
	w := ctx.World
	a := s.updateArena
	a.Reset()

	for _, e := range w.Query(s.markers.Handle) {
		moved := w.Has(e, ecs.GlobalTransformID) && ctx.Changed(e, ecs.GlobalTransformID)
		changed := false
		for _, t := range s.custom {
			if w.Has(e, t.id) && ctx.Changed(e, t.id) {
				changed = true
				break
			}
		}
		if !moved && !changed {
			continue
		}

		h, _ := s.markers.HostHandle(w, e)
		a.Begin(h)
		if moved {
			gt, _ := w.Get(e, ecs.GlobalTransformID)
			a.Add(s.tfTag, s.transformRecord(gt))
		}
		for _, t := range s.custom {
			if w.Has(e, t.id) && ctx.Changed(e, t.id) {
				v, _ := w.Get(e, t.id)
				a.AddCustom(t.tag, v)
			}
		}
	}

	batch := a.Finish()
	if cb := s.ctx.update; cb != nil {
		cb(batch)
	}
}

// destroy reports and removes every destroy marker.
func (s *systems) destroy(ctx *ecs.Ctx) {
	w := ctx.World
	s.destroyed = s.destroyed[:0]
	s.despawn = s.despawn[:0]

	for _, e := range w.Query(s.markers.Destroy) {
		v, _ := w.Get(e, s.markers.Destroy)
		s.destroyed = append(s.destroyed, wire.ReadHandle(v))
		s.despawn = append(s.despawn, e)
	}
	for _, e := range s.despawn {
		w.Despawn(e)
	}
	if cb := s.ctx.destroy; cb != nil {
		cb(wire.DestroyBatch(s.destroyed))
	}
}
