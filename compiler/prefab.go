package compiler

import (
	"github.com/wippyai/ecs-bridge/ecs"
	"github.com/wippyai/ecs-bridge/wire"
)

// PrefabResource maps each variant of one prefab enumeration to the host
// template registered for it. It starts empty; only RegisterPrefabs fills it.
type PrefabResource struct {
	prefab *Prefab
	refs   map[int]wire.Handle
}

func newPrefabResource(p *Prefab) *PrefabResource {
	return &PrefabResource{prefab: p, refs: make(map[int]wire.Handle, len(p.Variants))}
}

func (r *PrefabResource) Name() string    { return r.prefab.Name }
func (r *PrefabResource) RefID() int32    { return r.prefab.RefID }
func (r *PrefabResource) Len() int        { return len(r.refs) }
func (r *PrefabResource) Prefab() *Prefab { return r.prefab }

// Insert registers refs in variant order and returns how many were stored.
// Refs beyond the declared variants are ignored.
func (r *PrefabResource) Insert(refs []wire.Handle) int {
	n := min(len(refs), len(r.prefab.Variants))
	for i := range n {
		r.refs[i] = refs[i]
	}
	return n
}

// Get returns the template registered for a variant ordinal.
func (r *PrefabResource) Get(variant int) (wire.Handle, bool) {
	h, ok := r.refs[variant]
	return h, ok
}

// GetByName returns the template registered for a named variant.
func (r *PrefabResource) GetByName(variant string) (wire.Handle, bool) {
	for i, v := range r.prefab.Variants {
		if v == variant {
			return r.Get(i)
		}
	}
	return wire.Handle{}, false
}

// PrefabResourceName is the world resource name of a prefab enumeration.
func PrefabResourceName(prefab string) string {
	return prefab + "Resource"
}

// PrefabResource returns the resource of a prefab enumeration installed in w.
func (c *Compiled) PrefabResource(w *ecs.World, prefab string) (*PrefabResource, bool) {
	v, ok := w.Named(PrefabResourceName(prefab))
	if !ok {
		return nil, false
	}
	r, ok := v.(*PrefabResource)
	return r, ok
}
