package ecs

import "fmt"

// Entity identifies a live object in a World. The index is dense and
// recycled; the generation tells a recycled index apart from its previous
// occupant. The zero Entity is never alive.
type Entity struct {
	Index      uint32
	Generation uint32
}

// Bits packs the entity as index | generation<<32.
func (e Entity) Bits() uint64 {
	return uint64(e.Index) | uint64(e.Generation)<<32
}

func EntityFromBits(bits uint64) Entity {
	return Entity{Index: uint32(bits), Generation: uint32(bits >> 32)}
}

func (e Entity) String() string {
	return fmt.Sprintf("%dv%d", e.Index, e.Generation)
}

type entityMeta struct {
	generation uint32
	alive      bool
}

// entities allocates indices with a free list. Freed indices are reused
// last-in first-out with a bumped generation.
type entities struct {
	metas    []entityMeta
	freeList []uint32
	live     int
}

func (es *entities) alloc() Entity {
	if n := len(es.freeList); n > 0 {
		idx := es.freeList[n-1]
		es.freeList = es.freeList[:n-1]
		m := &es.metas[idx]
		m.alive = true
		es.live++
		return Entity{Index: idx, Generation: m.generation}
	}

	es.metas = append(es.metas, entityMeta{generation: 1, alive: true})
	es.live++
	return Entity{Index: uint32(len(es.metas) - 1), Generation: 1}
}

func (es *entities) alive(e Entity) bool {
	if int(e.Index) >= len(es.metas) {
		return false
	}
	m := es.metas[e.Index]
	return m.alive && m.generation == e.Generation
}

func (es *entities) free(e Entity) bool {
	if !es.alive(e) {
		return false
	}
	m := &es.metas[e.Index]
	m.alive = false
	m.generation++
	if m.generation == 0 {
		m.generation = 1
	}
	es.freeList = append(es.freeList, e.Index)
	es.live--
	return true
}

// entity returns the live entity at idx.
func (es *entities) entity(idx uint32) (Entity, bool) {
	if int(idx) >= len(es.metas) || !es.metas[idx].alive {
		return Entity{}, false
	}
	return Entity{Index: idx, Generation: es.metas[idx].generation}, true
}
