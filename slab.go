package polytype

const (
	defaultPageCapacity   = 1024
	defaultMinListCapacity = 4
)

// Slot addresses one reservation inside a Pool: a contiguous run of elemSize
// Reference cells, plus the {size, capacity} pair a RefList needs (spec.md
// §4.1 "Slot layout is [size, capacity, ref_0, …, ref_{k-1}]"). Go's GC requires
// statically typed fields, so the two header words live in a parallel metadata
// slice on the page rather than embedded as the slot's first two words; the
// backing Reference array itself is still a genuine slab slice, shared across
// every list of that capacity class.
type Slot struct {
	page     *page
	index    int32
	elemSize int32
}

// Valid reports whether s addresses a real slot rather than the null-list sentinel.
func (s Slot) Valid() bool { return s.page != nil }

// Refs returns the slot's backing array, length elemSize, regardless of the
// list's logical size.
func (s Slot) Refs() []Reference {
	start := s.index * s.elemSize
	return s.page.data[start : start+s.elemSize]
}

func (s Slot) size() int32     { return s.page.size[s.index] }
func (s Slot) setSize(n int32) { s.page.size[s.index] = n }

// page is a fixed-stride arena: Config.SlabPageCapacity slots, each holding
// elemSize Reference cells (spec.md §4.1).
type page struct {
	elemSize  int32
	data      []Reference
	size      []int32
	freeNext  []int32 // freeNext[i] is the next free slot after i, or -1
	elemCount int32
	freeHead  int32 // -1 when the free list is empty
}

func newPage(elemSize int32, capacity int32) *page {
	return &page{
		elemSize: elemSize,
		data:     make([]Reference, elemSize*capacity),
		size:     make([]int32, capacity),
		freeNext: make([]int32, capacity),
		freeHead: -1,
	}
}

func (p *page) capacity() int32 { return int32(len(p.size)) }

// Pool is a slab allocator for reference-list backing arrays (spec.md §4.1). It is
// scoped to a single Registry rather than process-wide global state, per spec.md
// §9's design note ("Consider scoping to a registry instance when implementing,
// exposing an explicit shutdown hook: this is a beneficial redesign, not a
// behavior change"); Shutdown drops every page so the Registry that owns this
// Pool can be garbage collected.
type Pool struct {
	byElemSize map[int32][]*page
}

// NewPool creates an empty slab allocator.
func NewPool() *Pool {
	return &Pool{byElemSize: make(map[int32][]*page)}
}

// Shutdown releases every page. The Pool must not be used afterward.
func (p *Pool) Shutdown() {
	p.byElemSize = nil
}

// AllocateArray returns a Slot with size 0 and capacity k, reusing a free slot of
// a page with matching elemSize when one exists, preferring the free list (LIFO)
// over growing elemCount, and allocating a new page only when neither is
// available (spec.md §4.1 "allocate_array(k)").
func (p *Pool) AllocateArray(k int32) Slot {
	invariant(k > 0, "slab: requested array of non-positive capacity")

	pages := p.byElemSize[k]
	var pg *page
	for _, candidate := range pages {
		if candidate.freeHead != -1 || candidate.elemCount < candidate.capacity() {
			pg = candidate
			break
		}
	}
	if pg == nil {
		pg = newPage(k, Config.SlabPageCapacity)
		p.byElemSize[k] = append(p.byElemSize[k], pg)
		logPageGrowth(k, len(p.byElemSize[k])-1)
	}

	var index int32
	if pg.freeHead != -1 {
		index = pg.freeHead
		pg.freeHead = pg.freeNext[index]
	} else {
		index = pg.elemCount
		pg.elemCount++
	}
	pg.size[index] = 0
	slot := Slot{page: pg, index: index, elemSize: k}
	for i := range slot.Refs() {
		slot.Refs()[i] = Reference{}
	}
	return slot
}

// FreeArray returns a slot to its page's free list for O(1) reuse (spec.md §4.1
// "free_array(slot)"). It panics with InvariantViolation if slot does not belong
// to this Pool or its recorded capacity class does not match the page it was
// allocated from — both are programming faults (spec.md §7.1).
func (p *Pool) FreeArray(slot Slot) {
	invariant(slot.Valid(), "slab: free_array received the null-list sentinel")
	pg := slot.page
	invariant(slot.elemSize == pg.elemSize, "slab: free_array slot capacity does not match owning page's elem_size")

	pages := p.byElemSize[pg.elemSize]
	found := false
	for _, candidate := range pages {
		if candidate == pg {
			found = true
			break
		}
	}
	invariant(found, "slab: free_array received a slot that does not belong to any page in this pool")

	pg.freeNext[slot.index] = pg.freeHead
	pg.freeHead = slot.index
}
