package polytype

import "unsafe"

// polyStorage is the type-erased face every Storage[T] presents to code that only
// knows a ComponentID, not its Go type — hierarchy cascades, Registry.Destroy, and
// the storageFactories table all go through it (spec.md §4.4/§4.5, grounded on
// other_examples' Argus-Labs-world-engine component_type_map.go's numeric-ID
// dispatch over a registry of otherwise-unrelated concrete types).
type polyStorage interface {
	emplaceRef(e Entity, ref Reference)
	eraseRef(e Entity, ptr unsafe.Pointer)
	destroy(e Entity)
	contains(e Entity) bool
}

// Storage holds every Cell[T] currently live for type T: one per entity that has
// T's own value, plus one per entity where some descendant contributes a reference
// projected through T (spec.md §3 "per-(Entity,ComponentID) cell", §4.4). Pointers
// into Storage's map are never exposed; the map itself holds *Cell[T] rather than
// Cell[T] precisely so a map rehash moves pointers, never the cells they point to.
type Storage[T any] struct {
	registry *Registry
	id       ComponentID
	cells    map[Entity]*Cell[T]
	deleter  Deleter
}

func newStorage[T any](r *Registry, id ComponentID) polyStorage {
	s := &Storage[T]{registry: r, id: id, cells: make(map[Entity]*Cell[T])}
	s.deleter = func(_ *Registry, e Entity) {
		cell := s.cells[e]
		invariant(cell != nil, "storage: deleter invoked for an entity with no cell")
		s.eraseValue(e, cell)
	}
	return s
}

func (s *Storage[T]) pool() *Pool { return s.registry.pool }

// Emplace attaches T's own value to e, returning a pointer to it. If e already has
// some descendant of T attached, the existing reference-tracking cell is promoted
// to also hold this value rather than replaced (spec.md §4.3 "construct_value",
// §4.4 "emplace(entity, args...)"). Either way, a reference to the new value is
// installed into every one of T's ancestors (spec.md §4.5 "emplace_hierarchy_references").
func (s *Storage[T]) Emplace(e Entity, value T) (*T, error) {
	cell, exists := s.cells[e]
	before := stateOnlyValue
	if exists {
		if cell.HasValue() {
			return nil, ComponentExistsError{Entity: e, Type: s.id}
		}
		before = cell.state
		cell.ConstructValue(s.pool(), value, s.deleter)
	} else {
		cell = newValueCell[T](value)
		s.cells[e] = cell
	}
	s.emplaceHierarchyReferences(e, cell)
	logCellTransition(s.id, e, before, cell.state)
	return &cell.value, nil
}

func (s *Storage[T]) emplaceHierarchyReferences(e Entity, cell *Cell[T]) {
	info := hierarchy[s.id]
	if len(info.parents) == 0 {
		return
	}
	self := unsafe.Pointer(&cell.value)
	for _, p := range info.parents {
		ref := Reference{Pointer: ancestorPointer(self, info.offsets[p]), Deleter: s.deleter}
		s.registry.assureByID(p).emplaceRef(e, ref)
	}
	logHierarchyCascade("emplace", s.id, e, len(info.parents))
}

// emplaceRef is invoked by a descendant's cascade to record that it contributes a
// reference to e's T-view (spec.md §4.3 "add_ref" applied at the storage level).
func (s *Storage[T]) emplaceRef(e Entity, ref Reference) {
	cell, exists := s.cells[e]
	if !exists {
		s.cells[e] = newRefCell[T](ref)
		return
	}
	cell.AddRef(s.pool(), ref, s.deleter)
}

// eraseRef is invoked reentrantly — either by an ancestor cascade during EraseValue,
// or by Cell.DestroyAllRefs invoking a descendant's deleter — to remove the single
// reference matching ptr.
func (s *Storage[T]) eraseRef(e Entity, ptr unsafe.Pointer) {
	cell, exists := s.cells[e]
	invariant(exists, "storage: erase_ref for an entity with no cell")
	if cell.DeleteRef(s.pool(), ptr) {
		delete(s.cells, e)
	}
}

// EraseValue removes e's own value of T, cascading the removal up through every
// one of T's ancestors (spec.md §4.4 "erase(entity)"). It returns
// ComponentNotFoundError if e has no T value of its own, even if it has a cell here
// purely from descendant tracking.
func (s *Storage[T]) EraseValue(e Entity) error {
	cell, exists := s.cells[e]
	if !exists || cell.state.hasRef() {
		return ComponentNotFoundError{Entity: e, Type: s.id}
	}
	s.eraseValue(e, cell)
	return nil
}

func (s *Storage[T]) eraseValue(e Entity, cell *Cell[T]) {
	info := hierarchy[s.id]
	before := cell.state
	self := unsafe.Pointer(&cell.value)
	for i := len(info.parents) - 1; i >= 0; i-- {
		p := info.parents[i]
		ptr := ancestorPointer(self, info.offsets[p])
		s.registry.assureByID(p).eraseRef(e, ptr)
	}
	if len(info.parents) > 0 {
		logHierarchyCascade("erase", s.id, e, len(info.parents))
	}
	if cell.DestroyValue(s.pool()) {
		delete(s.cells, e)
	}
	logCellTransition(s.id, e, before, cell.state)
}

// destroy tears down e's entire presence in this storage — its own value, if any,
// and every descendant reference it tracks — as part of a whole-entity
// Registry.Destroy (spec.md §4.4 "destroy(entity)"). It is a no-op if e has no cell
// here, which happens whenever some other storage's cascade already reached it.
func (s *Storage[T]) destroy(e Entity) {
	cell, exists := s.cells[e]
	if !exists {
		return
	}
	stillHasValue := !cell.DestroyAllRefs(s.registry, e)
	if stillHasValue {
		s.eraseValue(e, cell)
		return
	}
	delete(s.cells, e)
}

func (s *Storage[T]) contains(e Entity) bool {
	_, exists := s.cells[e]
	return exists
}

// Contains reports whether e has T's own value attached, as opposed to merely
// being reachable through a descendant's cell here.
func (s *Storage[T]) Contains(e Entity) bool {
	cell, exists := s.cells[e]
	return exists && cell.HasValue()
}

// Get returns a pointer to e's own T value.
func (s *Storage[T]) Get(e Entity) (*T, error) {
	cell, exists := s.cells[e]
	if !exists || cell.state.hasRef() {
		return nil, ComponentNotFoundError{Entity: e, Type: s.id}
	}
	return &cell.value, nil
}

// TryGet is Get without the error, returning nil instead.
func (s *Storage[T]) TryGet(e Entity) *T {
	if cell, exists := s.cells[e]; exists && !cell.state.hasRef() {
		return &cell.value
	}
	return nil
}

// Every returns the iteration facade over every T-view of e: T's own value, one
// descendant's value projected through T, or several (spec.md §4.6 "every<T>(e)").
func (s *Storage[T]) Every(e Entity) Every[T] {
	return Every[T]{cell: s.cells[e]}
}
