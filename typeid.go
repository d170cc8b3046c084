package polytype

import (
	"fmt"
	"reflect"
)

// ComponentID is a registered polymorphic component type's identity, obtained once
// via RegisterRoot or RegisterChild. It plays the role entt's template parameter
// Component plays at compile time; Go has no template instantiation, so the
// identity is assigned the first time a type is registered (grounded on
// lazyecs' component.go RegisterComponent[T] pattern: a package-level
// reflect.Type → ID map populated once per type).
type ComponentID uint32

var typeRegistry = struct {
	byType map[reflect.Type]ComponentID
	byID   map[ComponentID]reflect.Type
	next   ComponentID
}{
	byType: make(map[reflect.Type]ComponentID),
	byID:   make(map[ComponentID]reflect.Type),
}

// TypeIDOf returns the ComponentID assigned to T, if any.
func TypeIDOf[T any]() (ComponentID, bool) {
	var zero T
	id, ok := typeRegistry.byType[reflect.TypeOf(zero)]
	return id, ok
}

func newComponentID[T any]() (ComponentID, reflect.Type) {
	var zero T
	t := reflect.TypeOf(zero)
	if _, ok := typeRegistry.byType[t]; ok {
		panic(InvariantViolation{Reason: fmt.Sprintf("component type %s registered more than once", t)})
	}
	id := typeRegistry.next
	typeRegistry.next++
	typeRegistry.byType[t] = id
	typeRegistry.byID[id] = t
	return id, t
}

func containsID(ids []ComponentID, target ComponentID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
