package polytype

// Component fixtures shared across this package's test files. Registration is
// process-global (spec.md §4.5 "registration time", mirrored by
// TypeIDOf/RegisterRoot/RegisterChild's package-level maps), so every fixture
// type is declared and registered exactly once here rather than per test.

// Single-hierarchy chain: RootA <: ChildB <: GrandchildC.
type RootA struct {
	Root
	A int
}
type ChildB struct {
	RootA
	B int
}
type GrandchildC struct {
	ChildB
	C int
}

// Sibling descendants sharing one root: RootP <: SiblingX, RootP <: SiblingY.
type RootP struct {
	Root
	P int
}
type SiblingX struct {
	RootP
	X int
}
type SiblingY struct {
	RootP
	Y int
}

// Diamond: DiamondA <: DiamondB, DiamondA <: DiamondC, {DiamondB,DiamondC} <: DiamondBC <: DiamondD.
type DiamondA struct {
	Root
	A int
}
type DiamondB struct {
	DiamondA
	BVal int
}
type DiamondC struct {
	DiamondA
	CVal int
}
type DiamondBC struct {
	DiamondB
	DiamondC
}
type DiamondD struct {
	DiamondBC
	DVal int
}

var (
	rootAID       = RegisterRoot[RootA]()
	childBID      = RegisterChild[ChildB](rootAID)
	grandchildCID = RegisterChild[GrandchildC](childBID)

	rootPID    = RegisterRoot[RootP]()
	siblingXID = RegisterChild[SiblingX](rootPID)
	siblingYID = RegisterChild[SiblingY](rootPID)

	diamondAID  = RegisterRoot[DiamondA]()
	diamondBID  = RegisterChild[DiamondB](diamondAID)
	diamondCID  = RegisterChild[DiamondC](diamondAID)
	diamondBCID = RegisterChild[DiamondBC](diamondBID, diamondCID)
	diamondDID  = RegisterChild[DiamondD](diamondBCID)
)
