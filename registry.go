package polytype

// Entity is an opaque handle identifying one addressable subject of component
// attachment. polytype does not version or recycle handles itself — that is the
// host ECS's job; a Registry only ever sees whatever Entity values its caller
// hands it (spec.md §3 "Entity", §6.1).
type Entity uint64

// Registry owns every Storage[T] for every polymorphic component type that has
// been touched through it, plus the slab Pool those storages' reference lists
// share (spec.md §4.4, grounded on warehouse's World/Registry split — here there is
// only one level, since polytype has no archetype table to own separately).
type Registry struct {
	pool     *Pool
	storages map[ComponentID]polyStorage
}

// NewRegistry creates an empty Registry with its own slab Pool.
func NewRegistry() *Registry {
	return &Registry{pool: NewPool(), storages: make(map[ComponentID]polyStorage)}
}

// Shutdown releases the Registry's slab pool. The Registry must not be used
// afterward (spec.md §9's note on scoping the allocator to a registry instance
// with an explicit shutdown hook).
func (r *Registry) Shutdown() {
	r.pool.Shutdown()
}

func (r *Registry) assureByID(id ComponentID) polyStorage {
	if s, ok := r.storages[id]; ok {
		return s
	}
	factory, ok := storageFactories[id]
	invariant(ok, "registry: no storage factory registered for this ComponentID")
	s := factory(r)
	r.storages[id] = s
	return s
}

// Assure returns the Registry's Storage[T], creating it on first use.
func Assure[T any](r *Registry) *Storage[T] {
	id, ok := TypeIDOf[T]()
	invariant(ok, "registry: Assure called on an unregistered component type; call RegisterRoot or RegisterChild first")
	return r.assureByID(id).(*Storage[T])
}

// Destroy removes every polymorphic component e has across every storage this
// Registry has created, in whatever order the storages map happens to iterate —
// each storage's destroy is idempotent and self-cascading, so the end result does
// not depend on that order (spec.md §4.4 "destroy(entity)", §8 "Destroy
// equivalence").
func (r *Registry) Destroy(e Entity) {
	for _, s := range r.storages {
		s.destroy(e)
	}
}

// Contains reports whether e has any cell at all in T's storage, including one
// contributed purely by a descendant.
func Contains[T any](r *Registry, e Entity) bool {
	return Assure[T](r).contains(e)
}
