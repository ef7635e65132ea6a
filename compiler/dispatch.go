package compiler

import (
	"github.com/wippyai/ecs-bridge/ecs"
	"github.com/wippyai/ecs-bridge/errors"
	"github.com/wippyai/ecs-bridge/schema"
	"github.com/wippyai/ecs-bridge/wire"
)

// Op attaches a decoded payload to a live entity.
type Op func(w *ecs.World, e ecs.Entity, payload []byte) error

func builtinOp(m *Member) (Op, error) {
	switch m.Op {
	case schema.OpInsert, schema.OpHandle:
		return insertOp(m), nil
	case schema.OpParent:
		return parentOp(m), nil
	case schema.OpTransform:
		return transformOp(m)
	}
	return nil, errors.Unsupported(errors.PhaseCompile, []string{string(schema.CategoryBuiltin), m.Name}, "unknown op "+string(m.Op))
}

func componentID(w *ecs.World, m *Member) (ecs.ComponentID, error) {
	id, ok := w.Lookup(m.Name)
	if !ok {
		return 0, errors.NotFound(errors.PhaseDecode, "component", m.Name)
	}
	return id, nil
}

func payloadOf(m *Member, payload []byte) ([]byte, error) {
	if uint32(len(payload)) < m.Size {
		return nil, errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
			Path(m.Name).
			Value(len(payload)).
			Detail("payload of %d bytes, record needs %d", len(payload), m.Size).
			Build()
	}
	return payload[:m.Size], nil
}

func insertOp(m *Member) Op {
	return func(w *ecs.World, e ecs.Entity, payload []byte) error {
		id, err := componentID(w, m)
		if err != nil {
			return err
		}
		p, err := payloadOf(m, payload)
		if err != nil {
			return err
		}
		return w.Insert(e, id, p)
	}
}

// parentOp inserts the component and parents the entity to the embedded
// entity whose bits are stored in the first field.
func parentOp(m *Member) Op {
	insert := insertOp(m)
	off := m.Fields[0].Offset
	return func(w *ecs.World, e ecs.Entity, payload []byte) error {
		if err := insert(w, e, payload); err != nil {
			return err
		}
		parent := ecs.EntityFromBits(wire.U64(payload[off:]))
		return w.SetParent(e, parent)
	}
}

// transformOp inserts the transform bundle from a column-major matrix.
func transformOp(m *Member) (Op, error) {
	f := m.Fields[0]
	if f.Type.Scalar != schema.F32 || f.Type.Len != 16 {
		return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
			Path(string(schema.CategoryBuiltin), m.Name, f.Name).
			Type(f.Type.String()).
			Detail("transform op needs a f32[16] matrix field").
			Build()
	}
	return func(w *ecs.World, e ecs.Entity, payload []byte) error {
		p, err := payloadOf(m, payload)
		if err != nil {
			return err
		}
		return w.InsertTransform(e, ecs.ReadMat4(p[f.Offset:]))
	}, nil
}

func dispatch(ops []Op, cat *Category, w *ecs.World, e ecs.Entity, records []wire.Record) error {
	for _, r := range records {
		if int(r.Tag) >= len(ops) {
			return errors.InvalidTag(errors.PhaseDecode, string(cat.Kind), r.Tag, len(ops))
		}
		if err := ops[r.Tag](w, e, r.Payload); err != nil {
			return err
		}
	}
	return nil
}

// Apply attaches builtin records to e in record order.
func (c *Compiled) Apply(w *ecs.World, e ecs.Entity, records []wire.Record) error {
	return dispatch(c.Dispatch, &c.Builtin, w, e, records)
}

// ApplyKnown decodes a flat array of builtin records and applies it.
func (c *Compiled) ApplyKnown(w *ecs.World, e ecs.Entity, buf []byte, count int) error {
	records, err := c.Builtin.Union.Decode(buf, count)
	if err != nil {
		return err
	}
	return c.Apply(w, e, records)
}

// ApplyCustom decodes the custom component blob of a spawn and applies it.
func (c *Compiled) ApplyCustom(w *ecs.World, e ecs.Entity, buf []byte, count int) error {
	records, err := c.Custom.Union.Decode(buf, count)
	if err != nil {
		return err
	}
	return dispatch(c.CustomOps, &c.Custom, w, e, records)
}

// ApplyStates decodes the custom state blob of a spawn. Each record stores
// its ordinal in the entity's state component; the matching watcher turns
// it into a transition.
func (c *Compiled) ApplyStates(w *ecs.World, e ecs.Entity, buf []byte, count int) error {
	records, err := c.States.Union.Decode(buf, count)
	if err != nil {
		return err
	}
	for _, r := range records {
		m := &c.States.Members[r.Tag]
		id, err := componentID(w, m)
		if err != nil {
			return err
		}
		if err := w.Insert(e, id, r.Payload[:1]); err != nil {
			return err
		}
	}
	return nil
}
