package polytype

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/TheBitDrifter/mask"
)

// hierarchyInfo is the registration-time record kept for one polymorphic
// component type: its direct and transitive parents, a bitmask for O(1)
// ancestor checks (spec.md §4.5's "ancestor_mask" note, grounded on the
// teacher's query.go use of mask.Mask for archetype matching), and the
// byte offset from a value of this type to each ancestor's embedded
// sub-object, used to compute value_as_P without RTTI (spec.md §4.5).
type hierarchyInfo struct {
	self         ComponentID
	goType       reflect.Type
	direct       []ComponentID
	parents      []ComponentID // transitive, deduplicated; each direct parent, then that parent's own ancestors
	ancestorMask mask.Mask
	offsets      map[ComponentID]uintptr
}

var hierarchy = map[ComponentID]*hierarchyInfo{}

// storageFactories lets code that only holds a ComponentID (e.g. a Cell cascading
// into an ancestor it does not know the Go type of) obtain that ancestor's
// concrete *Storage[P] through the type-erased polyStorage interface. Grounded on
// other_examples' Argus-Labs-world-engine component_type_map.go, which solves the
// identical "dispatch across unrelated concrete types by numeric ID" problem for
// an ECS's component registry.
var storageFactories = map[ComponentID]func(*Registry) polyStorage{}

// RegisterRoot registers T as the root of a new polymorphic hierarchy: it has no
// polymorphic parents (spec.md §4.5 "inherit<>" with zero parents, §4.6 scenario
// where a type sits at the top of its own lattice). T should embed Root purely as
// documentation; RegisterRoot does not require or inspect it.
func RegisterRoot[T any]() ComponentID {
	return registerHierarchy[T]()
}

// RegisterChild registers T as a polymorphic component whose direct parents are
// directParents, already-registered ComponentIDs (spec.md §4.5 "inherit<Parents...>").
// Requiring parents to already be registered makes a cyclic declaration structurally
// inexpressible: T cannot name an ancestor that does not yet exist, so there is no
// runtime cycle check to run (spec.md §7.2 "rejected at definition time, not
// detected at runtime").
func RegisterChild[T any](directParents ...ComponentID) ComponentID {
	invariant(len(directParents) > 0, "hierarchy: RegisterChild called with no parents; use RegisterRoot")
	for _, p := range directParents {
		if _, ok := hierarchy[p]; !ok {
			panic(InvariantViolation{Reason: fmt.Sprintf("hierarchy: parent ComponentID %d registered after or never registered", p)})
		}
	}
	return registerHierarchy[T](directParents...)
}

func registerHierarchy[T any](directParents ...ComponentID) ComponentID {
	id, goType := newComponentID[T]()

	info := &hierarchyInfo{
		self:    id,
		goType:  goType,
		direct:  append([]ComponentID(nil), directParents...),
		offsets: make(map[ComponentID]uintptr),
	}

	seen := map[ComponentID]bool{}
	for _, dp := range directParents {
		parentInfo := hierarchy[dp]
		addParent(info, dp, parentInfo.goType, seen)
		for _, gp := range parentInfo.parents {
			addParent(info, gp, hierarchy[gp].goType, seen)
		}
	}

	hierarchy[id] = info
	storageFactories[id] = func(r *Registry) polyStorage {
		return newStorage[T](r, id)
	}
	return id
}

func addParent(info *hierarchyInfo, parent ComponentID, parentType reflect.Type, seen map[ComponentID]bool) {
	if seen[parent] {
		return
	}
	seen[parent] = true
	info.parents = append(info.parents, parent)
	info.ancestorMask.Mark(uint32(parent))

	off, ok := findEmbeddedOffset(info.goType, parentType)
	invariant(ok, fmt.Sprintf("hierarchy: %s declares %s as an ancestor but does not embed it", info.goType, parentType))
	info.offsets[parent] = off
}

// findEmbeddedOffset searches t's anonymous fields, recursively, for one of type
// target, returning the cumulative byte offset of the first match found. Go struct
// embedding is the idiomatic analogue of spec.md §4.5's pointer-adjustment step:
// where EnTT computes a compile-time base-class offset, Go gives us the identical
// number at runtime via reflect.StructField.Offset, with no vtable involved.
func findEmbeddedOffset(t reflect.Type, target reflect.Type) (uintptr, bool) {
	if t.Kind() != reflect.Struct {
		return 0, false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		if f.Type == target {
			return f.Offset, true
		}
		if off, ok := findEmbeddedOffset(f.Type, target); ok {
			return f.Offset + off, true
		}
	}
	return 0, false
}

func ancestorPointer(value unsafe.Pointer, offset uintptr) unsafe.Pointer {
	return unsafe.Pointer(uintptr(value) + offset)
}

// ParentTypes returns every ancestor of T, transitive and deduplicated, ordered
// as each direct parent followed by that parent's own ancestors, keeping only
// the first occurrence of each (spec.md §4.5 "parent_types(T)").
func ParentTypes[T any]() []ComponentID {
	id, ok := TypeIDOf[T]()
	invariant(ok, "hierarchy: ParentTypes called on an unregistered component type")
	return append([]ComponentID(nil), hierarchy[id].parents...)
}

// DirectParentTypes returns only the parents T was registered with.
func DirectParentTypes[T any]() []ComponentID {
	id, ok := TypeIDOf[T]()
	invariant(ok, "hierarchy: DirectParentTypes called on an unregistered component type")
	return append([]ComponentID(nil), hierarchy[id].direct...)
}

// IsPolymorphic reports whether T has been registered via RegisterRoot or
// RegisterChild.
func IsPolymorphic[T any]() bool {
	_, ok := TypeIDOf[T]()
	return ok
}

// IsParentOf reports whether parent is an ancestor of child, direct or transitive.
// Backed by ancestorMask rather than a scan over the parents slice, the same
// bitset-membership trick the teacher's query.go uses for archetype matching.
func IsParentOf(parent, child ComponentID) bool {
	info, ok := hierarchy[child]
	if !ok {
		return false
	}
	var probe mask.Mask
	probe.Mark(uint32(parent))
	return info.ancestorMask.ContainsAll(probe)
}

// IsDirectParentOf reports whether parent is one of child's declared direct parents.
func IsDirectParentOf(parent, child ComponentID) bool {
	info, ok := hierarchy[child]
	if !ok {
		return false
	}
	return containsID(info.direct, parent)
}

// IsSameOrParentOf reports whether a == b or a is an ancestor of b.
func IsSameOrParentOf(a, b ComponentID) bool {
	return a == b || IsParentOf(a, b)
}
