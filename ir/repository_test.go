package ir_test

import (
	"testing"

	"github.com/liftedplan/kpkc/ir"
	"github.com/stretchr/testify/require"
)

func TestRepository_InternThenLookup(t *testing.T) {
	repo := ir.NewRepository[ir.ObjectData](0)

	idx, inserted := repo.GetOrCreate(ir.ObjectData{Name: "rooma"})
	require.True(t, inserted)

	found, ok := repo.Find(ir.ObjectData{Name: "rooma"})
	require.True(t, ok)
	require.Equal(t, idx, found, "get_or_create(x).0 == find(x).unwrap() after insertion")

	again, inserted := repo.GetOrCreate(ir.ObjectData{Name: "rooma"})
	require.False(t, inserted)
	require.Equal(t, idx, again)
}

func TestRepository_Dedup(t *testing.T) {
	repo := ir.NewRepository[ir.ObjectData](0)
	repo.GetOrCreate(ir.ObjectData{Name: "a"})
	repo.GetOrCreate(ir.ObjectData{Name: "b"})
	repo.GetOrCreate(ir.ObjectData{Name: "a"})
	require.EqualValues(t, 2, repo.Size())
}

func TestOverlay_Transparency(t *testing.T) {
	parent := ir.NewRepository[ir.ObjectData](0)
	for _, name := range []string{"a", "b", "c"} {
		parent.GetOrCreate(ir.ObjectData{Name: name})
	}

	overlay := ir.NewOverlay[ir.ObjectData](parent)
	idx, ok := overlay.Find(ir.ObjectData{Name: "b"})
	require.True(t, ok)
	require.Equal(t, overlay.Get(idx), parent.Get(idx), "indexing a parent-born value through an overlay yields the same Data as through the parent")

	newIdx, inserted := overlay.GetOrCreate(ir.ObjectData{Name: "d"})
	require.True(t, inserted)
	require.EqualValues(t, parent.Size(), newIdx, "overlay-local indices continue the parent's numbering")
}

func TestGroupedOverlay_Layering(t *testing.T) {
	// Parent holds 10 atoms of predicate P; an overlay built on top inserts
	// 5 more. Indexing atom 3 through the overlay must equal indexing it
	// through the parent; atom 12 resolves to the overlay's local entry 2.
	parent := ir.NewGroupedOverlay[ir.GroundAtomData](nil)
	const predicate ir.Index = 7
	for i := 0; i < 10; i++ {
		parent.GetOrCreate(predicate, ir.GroundAtomData{Predicate: predicate, Args: []ir.Index{ir.Index(i)}})
	}

	overlay := ir.NewGroupedOverlay[ir.GroundAtomData](parent)
	for i := 10; i < 15; i++ {
		overlay.GetOrCreate(predicate, ir.GroundAtomData{Predicate: predicate, Args: []ir.Index{ir.Index(i)}})
	}

	require.EqualValues(t, 15, overlay.Size(predicate))

	want3, ok := parent.Find(predicate, ir.GroundAtomData{Predicate: predicate, Args: []ir.Index{3}})
	require.True(t, ok)
	got3 := overlay.Get(ir.GroupIndex{Group: predicate, Value: 3})
	require.Equal(t, parent.Get(want3), got3)

	got12 := overlay.Get(ir.GroupIndex{Group: predicate, Value: 12})
	require.Equal(t, ir.GroundAtomData{Predicate: predicate, Args: []ir.Index{12}}, got12)
}

func TestOverlay_MergeRemapsCollidingWorkers(t *testing.T) {
	program := ir.NewRootOverlay[ir.ObjectData]()
	program.GetOrCreate(ir.ObjectData{Name: "existing"})

	workerA := ir.NewOverlay[ir.ObjectData](program)
	workerB := ir.NewOverlay[ir.ObjectData](program)

	// Both workers see the same parent snapshot (size 1) and both assign
	// their own new object local index 1 - these must NOT collide once
	// merged sequentially.
	_, _ = workerA.GetOrCreate(ir.ObjectData{Name: "alpha"})
	_, _ = workerB.GetOrCreate(ir.ObjectData{Name: "beta"})

	entriesA := workerA.MergeInto(program)
	entriesB := workerB.MergeInto(program)

	require.Len(t, entriesA, 1)
	require.Len(t, entriesB, 1)
	require.NotEqual(t, entriesA[0].To, entriesB[0].To, "sequential merge must assign distinct final indices")
	require.True(t, entriesA[0].Inserted)
	require.True(t, entriesB[0].Inserted)
	require.EqualValues(t, 3, program.Size())
}

func TestCanonicalizeExpr_Idempotent(t *testing.T) {
	e := ir.ExprData{Kind: ir.ExprMulti, Op: ir.OpMultiAdd, Operands: []ir.Index{5, 1, 3}}
	once := ir.CanonicalizeExpr(e)
	twice := ir.CanonicalizeExpr(once)
	require.Equal(t, once, twice)
	require.Equal(t, []ir.Index{1, 3, 5}, once.Operands)
}

func TestCanonicalizeExpr_NonCommutativePreservesOrder(t *testing.T) {
	e := ir.ExprData{Kind: ir.ExprBinary, Op: ir.OpSub, Operands: []ir.Index{5, 1}}
	got := ir.CanonicalizeExpr(e)
	require.Equal(t, []ir.Index{5, 1}, got.Operands)
}
