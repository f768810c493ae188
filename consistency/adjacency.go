// File: adjacency.go
// Role: PartitionedAdjacencyMatrix — the k-partite graph's edge storage,
// EXPLICIT (owns bitset rows in both directions, so row queries are O(1)
// from either side) or IMPLICIT (no storage, all cross-partition pairs
// trivially adjacent). The mode is fixed at construction from the rule's
// variable-dependency graph and never changes.
package consistency

import "github.com/bits-and-blooms/bitset"

type cellKey struct{ I, J int } // invariant: I < J

// AdjacencyCell is one partition-pair's edge storage.
type AdjacencyCell struct {
	mode  Mode
	sizeI int
	sizeJ int

	// rowsFromI[vi] is a bitset over partition J's local ids, for queries
	// walking from partition I to partition J.
	rowsFromI []*bitset.BitSet
	// rowsFromJ[vj] is the transpose, for queries walking J -> I.
	rowsFromJ []*bitset.BitSet
}

func newAdjacencyCell(mode Mode, sizeI, sizeJ int) *AdjacencyCell {
	c := &AdjacencyCell{mode: mode, sizeI: sizeI, sizeJ: sizeJ}
	if mode == Explicit {
		c.rowsFromI = make([]*bitset.BitSet, sizeI)
		for i := range c.rowsFromI {
			c.rowsFromI[i] = bitset.New(uint(sizeJ))
		}
		c.rowsFromJ = make([]*bitset.BitSet, sizeJ)
		for j := range c.rowsFromJ {
			c.rowsFromJ[j] = bitset.New(uint(sizeI))
		}
	}
	return c
}

// Mode reports whether this cell is stored explicitly.
func (c *AdjacencyCell) Mode() Mode { return c.mode }

// SetEdge marks (vi, vj) adjacent. A no-op on an IMPLICIT cell (every pair
// there is already unconditionally adjacent).
func (c *AdjacencyCell) SetEdge(vi, vj int) {
	if c.mode != Explicit {
		return
	}
	c.rowsFromI[vi].Set(uint(vj))
	c.rowsFromJ[vj].Set(uint(vi))
}

// ClearEdge removes (vi, vj)'s adjacency.
func (c *AdjacencyCell) ClearEdge(vi, vj int) {
	if c.mode != Explicit {
		return
	}
	c.rowsFromI[vi].Clear(uint(vj))
	c.rowsFromJ[vj].Clear(uint(vi))
}

// ClearAll empties every edge in this cell (leaves mode/sizes intact).
func (c *AdjacencyCell) ClearAll() {
	if c.mode != Explicit {
		return
	}
	for _, r := range c.rowsFromI {
		r.ClearAll()
	}
	for _, r := range c.rowsFromJ {
		r.ClearAll()
	}
}

// Adjacent reports whether (vi, vj) is currently an edge.
func (c *AdjacencyCell) Adjacent(vi, vj int) bool {
	if c.mode != Explicit {
		return true
	}
	return c.rowsFromI[vi].Test(uint(vj))
}

// RowFromI returns the live bitset of partition-J neighbors of vi. Callers
// must not mutate an IMPLICIT cell's row (nil); use PartitionedAdjacencyMatrix.Row
// instead, which synthesizes a full set for IMPLICIT cells.
func (c *AdjacencyCell) RowFromI(vi int) *bitset.BitSet {
	if c.mode != Explicit {
		return nil
	}
	return c.rowsFromI[vi]
}

// RowFromJ is RowFromI's transpose-side counterpart.
func (c *AdjacencyCell) RowFromJ(vj int) *bitset.BitSet {
	if c.mode != Explicit {
		return nil
	}
	return c.rowsFromJ[vj]
}

// PartitionedAdjacencyMatrix is the k-partite graph's full edge set, one
// AdjacencyCell per unordered pair of distinct partitions.
type PartitionedAdjacencyMatrix struct {
	layout *GraphLayout
	dep    *DependencyGraph
	cells  map[cellKey]*AdjacencyCell
}

// NewPartitionedAdjacencyMatrix allocates one cell per partition pair,
// EXPLICIT iff dep reports at least one co-constraining label for that
// pair, IMPLICIT otherwise.
func NewPartitionedAdjacencyMatrix(layout *GraphLayout, dep *DependencyGraph) *PartitionedAdjacencyMatrix {
	m := &PartitionedAdjacencyMatrix{layout: layout, dep: dep, cells: make(map[cellKey]*AdjacencyCell)}
	k := layout.Arity()
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			m.cells[cellKey{i, j}] = newAdjacencyCell(dep.CellMode(i, j), layout.PartitionSize(i), layout.PartitionSize(j))
		}
	}
	return m
}

func (m *PartitionedAdjacencyMatrix) cell(i, j int) (c *AdjacencyCell, swapped bool) {
	if i < j {
		return m.cells[cellKey{i, j}], false
	}
	return m.cells[cellKey{j, i}], true
}

// Cell exposes the raw cell for (i,j), plus whether the caller's (i,j)
// order is swapped relative to the cell's internal (I,J) storage order.
func (m *PartitionedAdjacencyMatrix) Cell(i, j int) (*AdjacencyCell, bool) {
	return m.cell(i, j)
}

// SetEdge marks (partition i, local vi) adjacent to (partition j, local vj).
func (m *PartitionedAdjacencyMatrix) SetEdge(i, vi, j, vj int) {
	if i == j {
		return
	}
	c, swapped := m.cell(i, j)
	if swapped {
		c.SetEdge(vj, vi)
	} else {
		c.SetEdge(vi, vj)
	}
}

// ClearEdge removes (i,vi)-(j,vj)'s adjacency.
func (m *PartitionedAdjacencyMatrix) ClearEdge(i, vi, j, vj int) {
	if i == j {
		return
	}
	c, swapped := m.cell(i, j)
	if swapped {
		c.ClearEdge(vj, vi)
	} else {
		c.ClearEdge(vi, vj)
	}
}

// Adjacent reports whether (i,vi) and (j,vj) are currently adjacent.
func (m *PartitionedAdjacencyMatrix) Adjacent(i, vi, j, vj int) bool {
	if i == j {
		return vi == vj
	}
	c, swapped := m.cell(i, j)
	if swapped {
		return c.Adjacent(vj, vi)
	}
	return c.Adjacent(vi, vj)
}

// Row returns the candidate bitset over partition to's local ids reachable
// from vertex v in partition from. IMPLICIT cells synthesize a fresh full
// set (every vertex in `to`'s active range is trivially adjacent); callers
// must not assume the returned set is shared storage in that case.
func (m *PartitionedAdjacencyMatrix) Row(from, v, to int) *bitset.BitSet {
	c, swapped := m.cell(from, to)
	if c.mode != Explicit {
		return fullSet(m.layout.PartitionSize(to))
	}
	if swapped {
		return c.RowFromJ(v)
	}
	return c.RowFromI(v)
}

func fullSet(n int) *bitset.BitSet {
	b := bitset.New(uint(n))
	if n <= 0 {
		return b
	}
	for i := 0; i < n; i++ {
		b.Set(uint(i))
	}
	return b
}

// Layout returns the matrix's GraphLayout.
func (m *PartitionedAdjacencyMatrix) Layout() *GraphLayout { return m.layout }

// Dependency returns the matrix's DependencyGraph (mode source of truth).
func (m *PartitionedAdjacencyMatrix) Dependency() *DependencyGraph { return m.dep }
