package polytype

import (
	"iter"
	"reflect"

	iter_util "github.com/TheBitDrifter/util/iter"
)

// Every is the read-only view spec.md §4.6 calls every<T>(entity): every distinct
// T-view reachable for one entity, whether T's own value or a descendant's value
// projected through T. It holds nothing but the cell it was built from, so it is
// cheap to construct and does not need to be released.
type Every[T any] struct {
	cell *Cell[T]
}

// Len returns how many T-views this entity currently has — 0, 1, or the size of
// the underlying reference list.
func (ev Every[T]) Len() int32 {
	if ev.cell == nil {
		return 0
	}
	if ev.cell.state.hasList() {
		return ev.cell.list.Size()
	}
	return 1
}

// Iter yields a pointer to each T-view in turn. Grounded on the teacher's own
// adoption of Go 1.23's range-over-func iterators (entity.go's use of
// iter_util.Collect over an iter.Seq), rather than returning a slice up front.
func (ev Every[T]) Iter() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		if ev.cell == nil {
			return
		}
		if !ev.cell.state.hasList() {
			yield(ev.cell.Any())
			return
		}
		for i := int32(0); i < ev.cell.list.Size(); i++ {
			ptr := (*T)(ev.cell.list.At(i).Pointer)
			if !yield(ptr) {
				return
			}
		}
	}
}

// Collect materializes Iter into a slice, using the same util/iter helper the
// teacher uses to collect its own element-type iterators.
func (ev Every[T]) Collect() []*T {
	return iter_util.Collect(ev.Iter())
}

// anyEvery lets IsEvery recognize an Every[T] value without knowing T, the closest
// Go analogue to entt::every<T> being recognizable as a distinct template
// instantiation at compile time — this is a supplemented feature pulled from the
// EnTT source's own runtime type-erased entry points, not present in the
// distilled surface.
type anyEvery interface {
	elemType() reflect.Type
}

func (ev Every[T]) elemType() reflect.Type {
	var zero T
	return reflect.TypeOf(zero)
}

// IsEvery reports whether v is some Every[T], and if so, which T.
func IsEvery(v any) (reflect.Type, bool) {
	e, ok := v.(anyEvery)
	if !ok {
		return nil, false
	}
	return e.elemType(), true
}
