package ecs

import (
	"slices"

	"github.com/wippyai/ecs-bridge/errors"
)

// SetParent makes parent the hierarchy parent of child, replacing any
// previous parent.
func (w *World) SetParent(child, parent Entity) error {
	if !w.Alive(child) || !w.Alive(parent) {
		return errors.New(errors.PhaseRuntime, errors.KindNotFound).
			Path("hierarchy").
			Detail("set parent of %s to %s: entity not alive", child, parent).
			Build()
	}
	for p, ok := parent, true; ok; p, ok = w.Parent(p) {
		if p == child {
			return errors.New(errors.PhaseRuntime, errors.KindInvalidData).
				Path("hierarchy").
				Detail("%s cannot be parented to its descendant %s", child, parent).
				Build()
		}
	}

	w.RemoveParent(child)
	w.parents[child.Index] = parent
	w.children[parent.Index] = append(w.children[parent.Index], child)
	return nil
}

// RemoveParent detaches child from its parent.
func (w *World) RemoveParent(child Entity) {
	parent, ok := w.parents[child.Index]
	if !ok {
		return
	}
	delete(w.parents, child.Index)

	siblings := w.children[parent.Index]
	if i := slices.Index(siblings, child); i >= 0 {
		siblings = slices.Delete(siblings, i, i+1)
	}
	if len(siblings) == 0 {
		delete(w.children, parent.Index)
	} else {
		w.children[parent.Index] = siblings
	}
}

// Parent returns the parent of e.
func (w *World) Parent(e Entity) (Entity, bool) {
	if !w.Alive(e) {
		return Entity{}, false
	}
	p, ok := w.parents[e.Index]
	return p, ok
}

// Children returns the children of e in attach order.
func (w *World) Children(e Entity) []Entity {
	if !w.Alive(e) {
		return nil
	}
	return slices.Clone(w.children[e.Index])
}
