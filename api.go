package polytype

import "unsafe"

// Deleter removes a concrete-typed component value from its owning storage and,
// by doing so, cascades the removal through the rest of the polymorphic hierarchy
// (spec.md §3 "Component Reference", §4.5 "deleter_of_T"). Ancestor storages treat
// a Deleter as opaque and only ever invoke it from Cell.DestroyAllRefs.
type Deleter func(r *Registry, e Entity)

// Reference is a {pointer, deleter} pair identifying one polymorphic component
// value owned by some descendant's concrete-typed storage. Two references are
// equal iff their Pointer fields are equal (spec.md §3).
type Reference struct {
	Pointer unsafe.Pointer
	Deleter Deleter
}

func (r Reference) isNull() bool { return r.Pointer == nil }

// Root is embedded by a component type to document that it is the root of a
// polymorphic hierarchy with zero parents (spec.md §6.1 "polymorphic root
// marker"). It carries no data and RegisterRoot does not inspect it — the marker
// exists purely so a reader can see a type's polymorphic intent at its
// declaration, the same way entt::polymorphic documents entt::inherit<>.
type Root struct{}
