package polytype

import "unsafe"

// cellState tracks which of the four shapes described in spec.md §3 a Cell
// currently has. The original packs this into the two low bits of a tagged
// pointer; Go's GC needs every pointer field statically typed and Go maps do not
// guarantee a value's address survives a rehash, so cellState lives as its own
// byte next to plain, separately-typed value/ref/list fields instead (spec.md §9's
// sanctioned fallback "(b) an untagged representation, extra word per cell").
type cellState uint8

const (
	refBit  cellState = 1
	listBit cellState = 2

	stateOnlyValue cellState = 0
	stateOnlyRef   cellState = refBit
	stateValueList cellState = listBit
	stateRefList   cellState = refBit | listBit
)

func (s cellState) hasRef() bool  { return s&refBit != 0 }
func (s cellState) hasList() bool { return s&listBit != 0 }

func (s cellState) String() string {
	switch s {
	case stateOnlyValue:
		return "ONLY_VALUE"
	case stateOnlyRef:
		return "ONLY_REF"
	case stateValueList:
		return "VALUE_LIST"
	case stateRefList:
		return "REF_LIST"
	default:
		return "INVALID"
	}
}

// Cell is the per-(entity, concrete type) container a Storage[T] keeps one of for
// every entity that has, or has a descendant contributing to, type T (spec.md §3
// "Component Reference Cell", §4.3). It is always reached through a *Cell[T] held
// in Storage's map, never copied, so its address is stable for as long as the
// entity holds the component (spec.md's "cell must not move" requirement, met here
// by heap-allocating each cell individually rather than relying on map value
// addresses, which Go does not guarantee stable across a rehash).
type Cell[T any] struct {
	value T
	ref   Reference // valid iff state == stateOnlyRef
	list  RefList   // valid iff state.hasList()
	repr  unsafe.Pointer // cached representative pointer while state == stateRefList
	state cellState
}

func newValueCell[T any](value T) *Cell[T] {
	return &Cell[T]{value: value, list: nullRefList, state: stateOnlyValue}
}

func newRefCell[T any](ref Reference) *Cell[T] {
	return &Cell[T]{ref: ref, list: nullRefList, state: stateOnlyRef}
}

// HasValue reports whether this cell holds a value of its own concrete type,
// rather than only tracking descendant references.
func (c *Cell[T]) HasValue() bool { return !c.state.hasRef() }

func (c *Cell[T]) State() cellState { return c.state }

// Any returns a pointer to whatever this cell currently exposes as "the" value of
// type T: its own value, its single reference, or an arbitrary element of its
// reference list (spec.md §4.3 "any()"). The original picks the branch with a
// single untagged-pointer load; Go's typed fields mean this is a three-way switch
// instead, but the result is the same branchless-in-spirit O(1) access.
func (c *Cell[T]) Any() *T {
	switch {
	case !c.state.hasRef():
		return &c.value
	case c.state.hasList():
		return (*T)(c.repr)
	default:
		return (*T)(c.ref.Pointer)
	}
}

func (c *Cell[T]) selfPointer() unsafe.Pointer { return unsafe.Pointer(&c.value) }

func (c *Cell[T]) selfRef(deleter Deleter) Reference {
	return Reference{Pointer: c.selfPointer(), Deleter: deleter}
}

// createList moves whatever single entry this cell currently holds directly
// (its own value or its single reference) into a freshly allocated list,
// without touching state bits; callers set listBit themselves.
func (c *Cell[T]) createList(pool *Pool, selfDeleter Deleter) {
	var seed Reference
	if c.state.hasRef() {
		seed = c.ref
	} else {
		seed = c.selfRef(selfDeleter)
	}
	c.list = nullRefList.PushBack(pool, seed)
	c.repr = seed.Pointer
}

// AddRef adds a reference to a descendant value, promoting ONLY_VALUE/ONLY_REF to
// VALUE_LIST/REF_LIST on the second entry (spec.md §4.3 "add_ref(ref)"). selfDeleter
// is only consulted the first time this cell grows a list, to seed it with this
// cell's own entry.
func (c *Cell[T]) AddRef(pool *Pool, ref Reference, selfDeleter Deleter) {
	invariant(!ref.isNull(), "cell: add_ref received a null reference")
	invariant(ref.Pointer != c.selfPointer(), "cell: add_ref received a self-reference")
	if !c.state.hasList() {
		c.createList(pool, selfDeleter)
	}
	c.list = c.list.PushBack(pool, ref)
	if c.state.hasRef() {
		c.repr = ref.Pointer
	}
	c.state |= listBit
}

// DeleteRef removes the reference whose pointer is ptr, collapsing a two-element
// list back down to a direct representation when it drops to size one (spec.md
// §4.3 "delete_ref(ptr)"). It returns whether the cell is now completely empty —
// true only when the cell held no value of its own and ptr was its last reference.
func (c *Cell[T]) DeleteRef(pool *Pool, ptr unsafe.Pointer) (empty bool) {
	if !c.state.hasList() {
		invariant(c.state.hasRef() && c.ref.Pointer == ptr, "cell: delete_ref received a non-existent reference")
		wasOnlyRef := c.state.hasRef()
		c.state = stateOnlyValue
		c.ref = Reference{}
		return wasOnlyRef
	}

	idx := c.list.IndexOf(Reference{Pointer: ptr})
	invariant(idx >= 0, "cell: delete_ref received a non-existent reference")
	c.list = c.list.RemoveSwap(pool, idx)

	if c.list.Size() == 1 {
		remaining := c.list.At(0)
		c.list = c.list.PopBack(pool)
		if c.state.hasRef() {
			c.ref = remaining
		}
		c.repr = nil
		c.state &^= listBit
	} else {
		c.repr = c.list.At(0).Pointer
	}
	return false
}

// ConstructValue promotes a reference-holding cell (ONLY_REF or REF_LIST) to also
// hold a value of its own type, used when a type that already has descendants gets
// its own value emplaced (spec.md §4.3 "construct_value(args…)").
func (c *Cell[T]) ConstructValue(pool *Pool, value T, selfDeleter Deleter) {
	invariant(c.state.hasRef(), "cell: construct_value called on a cell that already holds a value")
	if !c.state.hasList() {
		c.createList(pool, selfDeleter)
	}
	c.value = value
	c.state &^= refBit
	c.list = c.list.PushBack(pool, c.selfRef(selfDeleter))
	c.state |= listBit
}

// DestroyValue tears down this cell's own value: if other references survive it in
// the list, the cell collapses back to ONLY_REF/REF_LIST instead of disappearing
// (spec.md §4.3 "destroy_value()" — erasing a type's own value must not destroy
// descendant components the cell also happens to be tracking). Returns whether the
// cell is now fully empty.
func (c *Cell[T]) DestroyValue(pool *Pool) (empty bool) {
	invariant(!c.state.hasRef(), "cell: destroy_value called on a cell holding no value")
	var zero T
	self := c.selfPointer()

	if !c.state.hasList() {
		c.value = zero
		c.state = stateOnlyRef // vacated; caller removes the cell entirely
		return true
	}

	idx := c.list.IndexOf(Reference{Pointer: self})
	invariant(idx >= 0, "cell: own value missing from its list")
	c.list = c.list.RemoveSwap(pool, idx)
	c.state |= refBit

	if c.list.Size() == 1 {
		remaining := c.list.At(0)
		c.list = c.list.PopBack(pool)
		c.ref = remaining
		c.state &^= listBit
	} else {
		c.repr = c.list.At(0).Pointer
	}
	c.value = zero
	return false
}

// DestroyAllRefs invokes every tracked descendant reference's deleter, skipping
// this cell's own value entry if it has one, and reports whether the cell is
// empty afterward (spec.md §4.3 "destroy_all_refs()"). Unlike the original, which
// captures the list's size and backing pointer once and relies on a freed slot's
// memory happening not to have been reused yet by the time the loop's last
// iteration reads it, this reads the live cell state on every iteration — safe
// under Go's GC, and exactly equivalent once the list has collapsed.
func (c *Cell[T]) DestroyAllRefs(r *Registry, e Entity) (empty bool) {
	hadValue := !c.state.hasRef()
	self := c.selfPointer()

	for c.state.hasList() {
		idx := c.list.Size() - 1
		if hadValue && c.list.At(idx).Pointer == self {
			idx = 0
		}
		ref := c.list.At(idx)
		invariant(!hadValue || ref.Pointer != self, "cell: destroy_all_refs found only its own entry in a non-collapsed list")
		ref.Deleter(r, e)
	}

	if !hadValue && c.state.hasRef() {
		c.ref.Deleter(r, e)
	}
	return !hadValue
}
