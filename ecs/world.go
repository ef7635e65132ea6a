package ecs

import (
	"reflect"

	"github.com/wippyai/ecs-bridge/errors"
)

// ComponentID identifies a registered component type within one World.
type ComponentID int

// World owns entities, component storage, hierarchy, states and resources.
// It is not safe for concurrent use.
type World struct {
	entities  entities
	stores    []*store
	byName    map[string]ComponentID
	parents   map[uint32]Entity
	children  map[uint32][]Entity
	states    map[string]*State
	resources map[reflect.Type]any
	named     map[string]any
	tick      Tick
}

// NewWorld returns an empty world with the transform components registered.
func NewWorld() *World {
	w := &World{
		byName:    make(map[string]ComponentID),
		parents:   make(map[uint32]Entity),
		children:  make(map[uint32][]Entity),
		states:    make(map[string]*State),
		resources: make(map[reflect.Type]any),
		named:     make(map[string]any),
		tick:      1,
	}
	w.mustRegister(TransformName, Mat4Size)
	w.mustRegister(GlobalTransformName, Mat4Size)
	return w
}

func (w *World) mustRegister(name string, size int) ComponentID {
	id, err := w.Register(name, size)
	if err != nil {
		panic(err)
	}
	return id
}

// Register declares a component type. Registering the same name with the
// same size again returns the existing id.
func (w *World) Register(name string, size int) (ComponentID, error) {
	if id, ok := w.byName[name]; ok {
		if w.stores[id].size != size {
			return 0, errors.New(errors.PhaseRuntime, errors.KindDuplicate).
				Path(name).
				Detail("registered with size %d, requested %d", w.stores[id].size, size).
				Build()
		}
		return id, nil
	}
	if size < 0 {
		return 0, errors.InvalidData(errors.PhaseRuntime, []string{name}, "negative component size")
	}

	id := ComponentID(len(w.stores))
	w.stores = append(w.stores, newStore(name, size))
	w.byName[name] = id
	return id, nil
}

// Lookup returns the id of a registered component.
func (w *World) Lookup(name string) (ComponentID, bool) {
	id, ok := w.byName[name]
	return id, ok
}

// ComponentName returns the registered name of id.
func (w *World) ComponentName(id ComponentID) string {
	if s := w.storeOf(id); s != nil {
		return s.name
	}
	return ""
}

// ComponentSize returns the registered size of id, or -1.
func (w *World) ComponentSize(id ComponentID) int {
	if s := w.storeOf(id); s != nil {
		return s.size
	}
	return -1
}

func (w *World) storeOf(id ComponentID) *store {
	if id < 0 || int(id) >= len(w.stores) {
		return nil
	}
	return w.stores[id]
}

// ChangeTick returns the tick new writes are stamped with.
func (w *World) ChangeTick() Tick { return w.tick }

func (w *World) incrementTick() Tick {
	w.tick++
	return w.tick
}

// Spawn creates an empty entity.
func (w *World) Spawn() Entity {
	return w.entities.alloc()
}

// Alive reports whether e refers to a live entity.
func (w *World) Alive(e Entity) bool {
	return w.entities.alive(e)
}

// Len returns the number of live entities.
func (w *World) Len() int { return w.entities.live }

// Despawn removes e and all its components. Children are detached and
// kept alive.
func (w *World) Despawn(e Entity) bool {
	if !w.entities.alive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e.Index)
	}
	w.RemoveParent(e)
	for _, c := range w.children[e.Index] {
		delete(w.parents, c.Index)
	}
	delete(w.children, e.Index)
	return w.entities.free(e)
}

// DespawnRecursive removes e and its whole subtree.
func (w *World) DespawnRecursive(e Entity) bool {
	for _, c := range w.Children(e) {
		w.DespawnRecursive(c)
	}
	return w.Despawn(e)
}

func (w *World) check(e Entity, id ComponentID) (*store, error) {
	s := w.storeOf(id)
	if s == nil {
		return nil, errors.New(errors.PhaseRuntime, errors.KindNotFound).
			Value(int(id)).
			Detail("component id %d not registered", id).
			Build()
	}
	if !w.entities.alive(e) {
		return nil, errors.New(errors.PhaseRuntime, errors.KindNotFound).
			Path(s.name).
			Value(e.Bits()).
			Detail("entity %s is not alive", e).
			Build()
	}
	return s, nil
}

// Insert attaches or overwrites a component. v is copied; a short v is
// zero-extended and a long one truncated to the registered size. Both
// cases stamp the component as changed.
func (w *World) Insert(e Entity, id ComponentID, v []byte) error {
	s, err := w.check(e, id)
	if err != nil {
		return err
	}
	s.put(e.Index, v, w.tick)
	return nil
}

// Set overwrites a component the entity already has.
func (w *World) Set(e Entity, id ComponentID, v []byte) error {
	s, err := w.check(e, id)
	if err != nil {
		return err
	}
	if s.slot(e.Index) < 0 {
		return errors.NotFound(errors.PhaseRuntime, "component "+s.name+" on entity", e.String())
	}
	s.put(e.Index, v, w.tick)
	return nil
}

// Get returns the stored bytes of a component. The slice aliases storage
// and is valid until the next structural change; use Mut to write.
func (w *World) Get(e Entity, id ComponentID) ([]byte, bool) {
	s, err := w.check(e, id)
	if err != nil {
		return nil, false
	}
	slot := s.slot(e.Index)
	if slot < 0 {
		return nil, false
	}
	return s.value(slot), true
}

// Mut returns writable component bytes and marks the component changed.
func (w *World) Mut(e Entity, id ComponentID) ([]byte, bool) {
	s, err := w.check(e, id)
	if err != nil {
		return nil, false
	}
	slot := s.slot(e.Index)
	if slot < 0 {
		return nil, false
	}
	s.changed[slot] = w.tick
	return s.value(slot), true
}

// Has reports whether e has component id.
func (w *World) Has(e Entity, id ComponentID) bool {
	s := w.storeOf(id)
	return s != nil && w.entities.alive(e) && s.slot(e.Index) >= 0
}

// Remove detaches a component.
func (w *World) Remove(e Entity, id ComponentID) bool {
	s, err := w.check(e, id)
	if err != nil {
		return false
	}
	return s.remove(e.Index)
}

// ChangedSince reports whether the component was inserted or written after
// tick since.
func (w *World) ChangedSince(e Entity, id ComponentID, since Tick) bool {
	s := w.storeOf(id)
	if s == nil || !w.entities.alive(e) {
		return false
	}
	slot := s.slot(e.Index)
	return slot >= 0 && s.changed[slot] > since
}

// AddedSince reports whether the component was inserted after tick since.
func (w *World) AddedSince(e Entity, id ComponentID, since Tick) bool {
	s := w.storeOf(id)
	if s == nil || !w.entities.alive(e) {
		return false
	}
	slot := s.slot(e.Index)
	return slot >= 0 && s.added[slot] > since
}

// Query returns the live entities holding every listed component, in
// ascending index order.
func (w *World) Query(ids ...ComponentID) []Entity {
	var smallest *store
	for _, id := range ids {
		s := w.storeOf(id)
		if s == nil {
			return nil
		}
		if smallest == nil || s.len() < smallest.len() {
			smallest = s
		}
	}

	var out []Entity
	for idx := range uint32(len(w.entities.metas)) {
		if smallest != nil && smallest.slot(idx) < 0 {
			continue
		}
		e, ok := w.entities.entity(idx)
		if !ok {
			continue
		}
		if w.hasAll(idx, ids) {
			out = append(out, e)
		}
	}
	return out
}

func (w *World) hasAll(idx uint32, ids []ComponentID) bool {
	for _, id := range ids {
		if w.stores[id].slot(idx) < 0 {
			return false
		}
	}
	return true
}

// Components lists the ids attached to e in registration order.
func (w *World) Components(e Entity) []ComponentID {
	if !w.entities.alive(e) {
		return nil
	}
	var out []ComponentID
	for id, s := range w.stores {
		if s.slot(e.Index) >= 0 {
			out = append(out, ComponentID(id))
		}
	}
	return out
}
