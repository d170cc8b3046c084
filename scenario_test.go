package polytype

import "testing"

// Fixtures for the permutation-stress scenario: a root, a direct child, a
// sibling of that child, and a grandchild, kept separate from fixtures_test.go's
// lattice so the subset/ordering sweep below starts from entities no other
// test has touched.
type permParent struct{ Root }
type permComponent struct{ permParent }
type permSibling struct{ permParent }
type permChild struct{ permComponent }

var (
	permParentID    = RegisterRoot[permParent]()
	permComponentID = RegisterChild[permComponent](permParentID)
	permSiblingID   = RegisterChild[permSibling](permParentID)
	permChildID     = RegisterChild[permChild](permComponentID)
)

// permutationsOfSlice returns every ordering of xs.
func permutationsOfSlice(xs []int) [][]int {
	if len(xs) == 0 {
		return [][]int{{}}
	}
	var result [][]int
	var permute func(cur, remaining []int)
	permute = func(cur, remaining []int) {
		if len(remaining) == 0 {
			result = append(result, append([]int(nil), cur...))
			return
		}
		for i, v := range remaining {
			next := append(append([]int(nil), remaining[:i]...), remaining[i+1:]...)
			permute(append(cur, v), next)
		}
	}
	permute(nil, xs)
	return result
}

// TestPermutationStressAcrossSubsetsAndOrderings drives every non-empty subset
// of {parent, component, sibling, child} through every ordering of emplacing
// that subset followed by every ordering of erasing it, asserting the round
// trip leaves no emplaced value behind and no view in the root's storage
// regardless of interleaving — the destructor for each emplaced value must fire
// exactly once, which a double-invocation would surface here as a panic from
// DeleteRef's or DestroyValue's invariant checks rather than a silent corruption.
func TestPermutationStressAcrossSubsetsAndOrderings(t *testing.T) {
	ops := []struct {
		name    string
		emplace func(r *Registry, e Entity)
		erase   func(r *Registry, e Entity) error
		present func(r *Registry, e Entity) bool
	}{
		{
			name:    "parent",
			emplace: func(r *Registry, e Entity) { Assure[permParent](r).Emplace(e, permParent{}) },
			erase:   func(r *Registry, e Entity) error { return Assure[permParent](r).EraseValue(e) },
			present: func(r *Registry, e Entity) bool { return Assure[permParent](r).Contains(e) },
		},
		{
			name:    "component",
			emplace: func(r *Registry, e Entity) { Assure[permComponent](r).Emplace(e, permComponent{}) },
			erase:   func(r *Registry, e Entity) error { return Assure[permComponent](r).EraseValue(e) },
			present: func(r *Registry, e Entity) bool { return Assure[permComponent](r).Contains(e) },
		},
		{
			name:    "sibling",
			emplace: func(r *Registry, e Entity) { Assure[permSibling](r).Emplace(e, permSibling{}) },
			erase:   func(r *Registry, e Entity) error { return Assure[permSibling](r).EraseValue(e) },
			present: func(r *Registry, e Entity) bool { return Assure[permSibling](r).Contains(e) },
		},
		{
			name:    "child",
			emplace: func(r *Registry, e Entity) { Assure[permChild](r).Emplace(e, permChild{}) },
			erase:   func(r *Registry, e Entity) error { return Assure[permChild](r).EraseValue(e) },
			present: func(r *Registry, e Entity) bool { return Assure[permChild](r).Contains(e) },
		},
	}

	for mask := 1; mask < 1<<len(ops); mask++ {
		var subset []int
		for i := range ops {
			if mask&(1<<i) != 0 {
				subset = append(subset, i)
			}
		}

		for _, emplaceOrder := range permutationsOfSlice(subset) {
			for _, eraseOrder := range permutationsOfSlice(subset) {
				reg := NewRegistry()
				e := Entity(1)

				for _, idx := range emplaceOrder {
					ops[idx].emplace(reg, e)
				}
				for _, idx := range subset {
					if !ops[idx].present(reg, e) {
						t.Fatalf("subset %v, emplace order %v: %s missing right after emplace", subset, emplaceOrder, ops[idx].name)
					}
				}

				for _, idx := range eraseOrder {
					if err := ops[idx].erase(reg, e); err != nil {
						t.Fatalf("subset %v, erase order %v: erasing %s failed: %v", subset, eraseOrder, ops[idx].name, err)
					}
				}
				for _, idx := range subset {
					if ops[idx].present(reg, e) {
						t.Fatalf("subset %v, erase order %v: %s still present after erase", subset, eraseOrder, ops[idx].name)
					}
				}
				if got := Assure[permParent](reg).Every(e).Len(); got != 0 {
					t.Fatalf("subset %v, emplace %v erase %v: permParent has %d leftover views after erasing everything emplaced", subset, emplaceOrder, eraseOrder, got)
				}
			}
		}
	}
}

// Fixtures for the ticking scenario: M inherits directly from {Ticking, BC},
// and BC inherits from {B, C} — the same shape as spec.md §8's scenario 6,
// kept distinct from the Diamond* fixtures since those exist to test
// dedup, not multi-frame iteration.
type Ticking struct {
	Root
	Counter int
}
type TickB struct {
	Ticking
	BVal int
}
type TickC struct {
	Ticking
	CVal int
}
type TickBC struct {
	TickB
	TickC
	BCVal int
}
type TickM struct {
	Ticking
	TickBC
	MVal int
}

var (
	tickingID = RegisterRoot[Ticking]()
	tickBID   = RegisterChild[TickB](tickingID)
	tickCID   = RegisterChild[TickC](tickingID)
	tickBCID  = RegisterChild[TickBC](tickBID, tickCID)
	tickMID   = RegisterChild[TickM](tickingID, tickBCID)
)

// TestTickingDescendantsAdvanceAcrossFrames emplaces two ticking descendants of
// the Ticking/BC lattice (TickB and TickC) plus M itself, then drives several
// simulated frames incrementing each entity's counter through
// every<Ticking>(e) alone — never naming the concrete descendant type — and
// checks each one's own counter field landed on the frame count. A
// host-managed, unrelated piece of per-entity state (standing in for spec.md
// §8's "transform") is carried alongside to confirm the ticking loop never
// touches state it doesn't own.
func TestTickingDescendantsAdvanceAcrossFrames(t *testing.T) {
	reg := NewRegistry()
	eB, eC, eM := Entity(1), Entity(2), Entity(3)

	type hostTransform struct{ X, Y int }
	transforms := map[Entity]hostTransform{eB: {X: 1, Y: 1}}

	if _, err := Assure[TickB](reg).Emplace(eB, TickB{}); err != nil {
		t.Fatalf("Emplace(TickB): %v", err)
	}
	if _, err := Assure[TickC](reg).Emplace(eC, TickC{}); err != nil {
		t.Fatalf("Emplace(TickC): %v", err)
	}
	if _, err := Assure[TickM](reg).Emplace(eM, TickM{}); err != nil {
		t.Fatalf("Emplace(TickM): %v", err)
	}

	const frames = 5
	for frame := 0; frame < frames; frame++ {
		for _, e := range []Entity{eB, eC, eM} {
			for v := range Assure[Ticking](reg).Every(e).Iter() {
				v.Counter++
			}
		}
	}

	bVal, err := Assure[TickB](reg).Get(eB)
	if err != nil {
		t.Fatalf("Get(TickB): %v", err)
	}
	if bVal.Counter != frames {
		t.Errorf("TickB.Counter = %d, want %d", bVal.Counter, frames)
	}

	cVal, err := Assure[TickC](reg).Get(eC)
	if err != nil {
		t.Fatalf("Get(TickC): %v", err)
	}
	if cVal.Counter != frames {
		t.Errorf("TickC.Counter = %d, want %d", cVal.Counter, frames)
	}

	mVal, err := Assure[TickM](reg).Get(eM)
	if err != nil {
		t.Fatalf("Get(TickM): %v", err)
	}
	if mVal.Counter != frames {
		t.Errorf("TickM.Counter = %d, want %d", mVal.Counter, frames)
	}

	if transforms[eB] != (hostTransform{X: 1, Y: 1}) {
		t.Errorf("unrelated host-owned transform state was touched by the ticking loop")
	}
}
