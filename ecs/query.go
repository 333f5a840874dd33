package ecs

import "github.com/milk9111/pong/ecs/component"

// Query returns the entities carrying every listed kind, in the order of the first kind's store.
func (w *World) Query(kinds ...component.Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	stores := make([]componentStore, 0, len(kinds))
	for _, k := range kinds {
		s, ok := w.stores[k.ID()]
		if !ok {
			return nil
		}
		stores = append(stores, s)
	}

	var out []Entity
	for _, id := range stores[0].ids() {
		if !hasAll(stores[1:], id) {
			continue
		}
		if e, ok := w.entities.current(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// First returns the first entity carrying kind.
func (w *World) First(kind component.Kind) (Entity, bool) {
	ents := w.Query(kind)
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}

func hasAll(stores []componentStore, id entityID) bool {
	for _, s := range stores {
		if !s.has(id) {
			return false
		}
	}
	return true
}

// ForEach calls fn for every entity with a component of kind a.
func ForEach[A any](w *World, a component.ComponentKind[A], fn func(Entity, *A)) {
	sa := storeFor(w, a, false)
	if sa == nil {
		return
	}
	for _, id := range sa.ids() {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		va, ok := sa.get(id)
		if !ok {
			continue
		}
		fn(e, va)
	}
}

// ForEach2 calls fn for every entity carrying both kinds.
func ForEach2[A, B any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sb := storeFor(w, b, false)
	if sb == nil {
		return
	}
	ForEach(w, a, func(e Entity, va *A) {
		vb, ok := sb.get(e.id())
		if !ok {
			return
		}
		fn(e, va, vb)
	})
}

// ForEach3 calls fn for every entity carrying all three kinds.
func ForEach3[A, B, C any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], c component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	sc := storeFor(w, c, false)
	if sc == nil {
		return
	}
	ForEach2(w, a, b, func(e Entity, va *A, vb *B) {
		vc, ok := sc.get(e.id())
		if !ok {
			return
		}
		fn(e, va, vb, vc)
	})
}

// ForEach4 calls fn for every entity carrying all four kinds.
func ForEach4[A, B, C, D any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], c component.ComponentKind[C], d component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	sd := storeFor(w, d, false)
	if sd == nil {
		return
	}
	ForEach3(w, a, b, c, func(e Entity, va *A, vb *B, vc *C) {
		vd, ok := sd.get(e.id())
		if !ok {
			return
		}
		fn(e, va, vb, vc, vd)
	})
}
