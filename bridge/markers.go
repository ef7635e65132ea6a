package bridge

import (
	"github.com/wippyai/ecs-bridge/ecs"
	"github.com/wippyai/ecs-bridge/errors"
	"github.com/wippyai/ecs-bridge/wire"
)

// Marker component names. Both hold a host handle.
const (
	InstantiateEntityName = "InstantiateEntity"
	DestroyEntityName     = "DestroyEntity"
)

// Markers is the world resource holding the bridge's component ids.
type Markers struct {
	Handle      ecs.ComponentID
	Instantiate ecs.ComponentID
	Destroy     ecs.ComponentID

	handleIndex   uint32
	handleVersion uint32
}

// HostHandle returns the host handle stored on e.
func (m *Markers) HostHandle(w *ecs.World, e ecs.Entity) (wire.Handle, bool) {
	b, ok := w.Get(e, m.Handle)
	if !ok {
		return wire.Handle{}, false
	}
	return wire.Handle{
		Index:   wire.I32(b[m.handleIndex:]),
		Version: wire.I32(b[m.handleVersion:]),
	}, true
}

func markers(w *ecs.World) (*Markers, error) {
	m, ok := ecs.GetResource[Markers](w)
	if !ok {
		return nil, errors.NotFound(errors.PhaseRuntime, "resource", "Markers")
	}
	return m, nil
}

// Instantiate asks the host to instantiate the prefab template at local.
// The create system reports it on the next update and removes the marker
// entity; the host then spawns the instance back through Spawn.
func Instantiate(w *ecs.World, prefab wire.Handle, local ecs.Mat4) (ecs.Entity, error) {
	m, err := markers(w)
	if err != nil {
		return ecs.Entity{}, err
	}
	var buf [wire.HandleSize]byte
	wire.PutHandle(buf[:], prefab)

	e := w.Spawn()
	if err := w.Insert(e, m.Instantiate, buf[:]); err != nil {
		w.Despawn(e)
		return ecs.Entity{}, err
	}
	if err := w.InsertTransform(e, local); err != nil {
		w.Despawn(e)
		return ecs.Entity{}, err
	}
	return e, nil
}

// Destroy despawns e with its subtree and queues e's host handle for the
// destroy callback. The host removes the children of its own twin.
func Destroy(w *ecs.World, e ecs.Entity) error {
	m, err := markers(w)
	if err != nil {
		return err
	}
	h, ok := m.HostHandle(w, e)
	if !ok {
		return errors.NotFound(errors.PhaseRuntime, "host handle on entity", e.String())
	}
	w.DespawnRecursive(e)

	var buf [wire.HandleSize]byte
	wire.PutHandle(buf[:], h)
	return w.Insert(w.Spawn(), m.Destroy, buf[:])
}
