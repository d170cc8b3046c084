package polytype

import "testing"

func TestParentTypesDedupesDiamond(t *testing.T) {
	parents := ParentTypes[DiamondD]()

	want := map[ComponentID]bool{diamondBCID: true, diamondBID: true, diamondCID: true, diamondAID: true}
	if len(parents) != len(want) {
		t.Fatalf("ParentTypes(DiamondD) = %v, want exactly one entry per %v", parents, want)
	}
	seen := map[ComponentID]bool{}
	for _, p := range parents {
		if seen[p] {
			t.Fatalf("ParentTypes(DiamondD) contains duplicate %d", p)
		}
		seen[p] = true
		if !want[p] {
			t.Fatalf("ParentTypes(DiamondD) contains unexpected ancestor %d", p)
		}
	}
}

func TestDirectParentTypes(t *testing.T) {
	direct := DirectParentTypes[DiamondBC]()
	if len(direct) != 2 {
		t.Fatalf("DirectParentTypes(DiamondBC) = %v, want 2 entries", direct)
	}
	if !containsID(direct, diamondBID) || !containsID(direct, diamondCID) {
		t.Fatalf("DirectParentTypes(DiamondBC) = %v, want {%d,%d}", direct, diamondBID, diamondCID)
	}
}

func TestIsParentOf(t *testing.T) {
	if !IsParentOf(diamondAID, diamondDID) {
		t.Errorf("expected DiamondA to be a transitive ancestor of DiamondD")
	}
	if !IsDirectParentOf(diamondBCID, diamondDID) {
		t.Errorf("expected DiamondBC to be a direct parent of DiamondD")
	}
	if IsDirectParentOf(diamondAID, diamondDID) {
		t.Errorf("expected DiamondA not to be a direct parent of DiamondD")
	}
	if IsParentOf(diamondDID, diamondAID) {
		t.Errorf("expected the ancestor relation not to hold in reverse")
	}
	if !IsSameOrParentOf(diamondDID, diamondDID) {
		t.Errorf("expected IsSameOrParentOf to hold reflexively")
	}
	if IsParentOf(diamondDID, diamondDID) {
		t.Errorf("expected IsParentOf to be irreflexive; parent_types(T) never contains T itself")
	}
	if IsParentOf(diamondAID, diamondAID) {
		t.Errorf("expected IsParentOf to be irreflexive even for a root type")
	}
}

func TestIsPolymorphic(t *testing.T) {
	if !IsPolymorphic[RootA]() {
		t.Errorf("expected RootA to be registered as polymorphic")
	}
	type unregistered struct{ Root }
	if IsPolymorphic[unregistered]() {
		t.Errorf("expected an unregistered type to report false")
	}
}

func TestRegisterChildRequiresRegisteredParents(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected RegisterChild to panic when a parent has never been registered")
		}
	}()
	type orphan struct{ RootA }
	RegisterChild[orphan](ComponentID(999999))
}

func TestFindEmbeddedOffsetThroughMultipleLevels(t *testing.T) {
	off, ok := findEmbeddedOffset(typeRegistry.byID[grandchildCID], typeRegistry.byID[rootAID])
	if !ok {
		t.Fatalf("expected GrandchildC to structurally embed RootA")
	}
	var probe GrandchildC
	want := uintptr(0) // RootA sits at the head of the embedding chain
	if off != want {
		t.Fatalf("offset(GrandchildC, RootA) = %d, want %d", off, want)
	}
	_ = probe
}
