/*
Package polytype is the polymorphic-component extension to a warehouse-style
Entity-Component-System registry.

A baseline ECS registry stores exactly one value of each component type per
entity. polytype lifts that restriction for a declared subset of component
types: an entity may carry any number of components that share a common
polymorphic ancestor, and a query against the ancestor type yields every one
of those components, without the caller ever naming their concrete types.

Core Concepts:

  - ComponentID: a registered component type's identity, obtained once via
    RegisterRoot or RegisterChild.
  - Storage[T]: a sparse, stable-address map from Entity to the polymorphic
    state ("cell") the entity holds for concrete type T.
  - Registry: owns one Storage[T] per registered polymorphic type and wires
    emplace/erase across the hierarchy.
  - Every[T]: the sequence of every T-ancestor a given entity carries,
    whether that entity has a value of exactly T, a handful of descendants,
    or nothing at all.

Basic Usage:

	type Base struct{ polytype.Root }

	baseID := polytype.RegisterRoot[Base]()

	type Leaf struct {
		Base
		Value int
	}
	leafID := polytype.RegisterChild[Leaf](baseID)

	reg := polytype.NewRegistry()
	var e polytype.Entity = 1

	leafStorage := polytype.Assure[Leaf](reg)
	leaf, _ := leafStorage.Emplace(e, Leaf{Value: 7})

	baseStorage := polytype.Assure[Base](reg)
	for view := range baseStorage.Every(e).Iter() {
		_ = view // view addresses the same Leaf{Value: 7}, seen as *Base
	}

	_ = leaf

polytype does not allocate entities, run queries, dispatch signals, or
serialize state; it assumes a host registry provides those and only expects
the small storage contract documented on the Storage type.
*/
package polytype
