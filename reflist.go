package polytype

// RefList is a thin, trivially-copyable view over a slab slot (spec.md §4.2).
// A RefList holding the zero Slot is the null-list sentinel: size 0, capacity 0,
// and never mutated in place — Reserve promotes it to a real allocation on first
// use (spec.md §3 "Reference List", §4.2's invariant).
type RefList struct {
	pool *Pool
	slot Slot
}

// nullRefList is the shared sentinel every empty Cell starts from.
var nullRefList = RefList{}

// Size returns the list's logical length.
func (l RefList) Size() int32 {
	if !l.slot.Valid() {
		return 0
	}
	return l.slot.size()
}

// Capacity returns the list's backing-array capacity.
func (l RefList) Capacity() int32 {
	if !l.slot.Valid() {
		return 0
	}
	return l.slot.elemSize
}

// At returns the i'th reference. i must be within [0, Size()).
func (l RefList) At(i int32) Reference {
	invariant(l.slot.Valid() && i >= 0 && i < l.slot.size(), "reflist: index out of range")
	return l.slot.Refs()[i]
}

func (l RefList) set(i int32, ref Reference) {
	l.slot.Refs()[i] = ref
}

// Reserve grows the list to at least n elements, rounding up to the next power of
// two with a floor of Config.MinListCapacity (spec.md §3, §4.2). It never shrinks.
func (l RefList) Reserve(pool *Pool, n int32) RefList {
	if l.Capacity() >= n {
		return l
	}
	target := nextPowerOfTwo(n)
	if target < int32(Config.MinListCapacity) {
		target = int32(Config.MinListCapacity)
	}
	newSlot := pool.AllocateArray(target)
	size := l.Size()
	if size > 0 {
		copy(newSlot.Refs(), l.slot.Refs()[:size])
		newSlot.setSize(size)
		pool.FreeArray(l.slot)
	}
	return RefList{pool: pool, slot: newSlot}
}

// PushBack appends ref, growing the list if necessary.
func (l RefList) PushBack(pool *Pool, ref Reference) RefList {
	grown := l.Reserve(pool, l.Size()+1)
	grown.set(grown.Size(), ref)
	grown.slot.setSize(grown.Size() + 1)
	return grown
}

// PopBack removes the last element. If the list becomes empty, its slot is freed
// and the returned RefList is the null-list sentinel (spec.md §4.2 "pop_back()").
func (l RefList) PopBack(pool *Pool) RefList {
	invariant(l.Size() > 0, "reflist: pop_back on empty list")
	newSize := l.Size() - 1
	if newSize == 0 {
		pool.FreeArray(l.slot)
		return nullRefList
	}
	l.slot.setSize(newSize)
	return l
}

// RemoveSwap removes the element at index i by swapping it with the last element
// and popping, mirroring Cell.DeleteRef's "swap-and-pop" strategy. It returns the
// updated list; the order of the remaining elements is not preserved.
func (l RefList) RemoveSwap(pool *Pool, i int32) RefList {
	last := l.Size() - 1
	if i != last {
		l.set(i, l.At(last))
	}
	return l.PopBack(pool)
}

// IndexOf returns the index of the reference whose Pointer matches ptr, or -1.
func (l RefList) IndexOf(ptr Reference) int32 {
	for i := int32(0); i < l.Size(); i++ {
		if l.slot.Refs()[i].Pointer == ptr.Pointer {
			return i
		}
	}
	return -1
}

func nextPowerOfTwo(n int32) int32 {
	if n <= 1 {
		return 1
	}
	p := int32(1)
	for p < n {
		p <<= 1
	}
	return p
}
