package costbucket

import (
	"container/heap"

	"github.com/liftedplan/kpkc/annotate"
	"github.com/liftedplan/kpkc/ir"
)

type item struct {
	atom ir.GroupIndex
	cost annotate.Cost
}

// itemHeap is a container/heap min-heap of items ordered by cost.
type itemHeap []item

func (h itemHeap) Len() int            { return len(h) }
func (h itemHeap) Less(i, j int) bool  { return h[i].cost < h[j].cost }
func (h itemHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *itemHeap) Push(x interface{}) { *h = append(*h, x.(item)) }
func (h *itemHeap) Pop() interface{} {
	old := *h
	n := len(old)
	last := old[n-1]
	*h = old[:n-1]
	return last
}

// Queue is a monotone cost-bucket priority queue. Pushing the same atom
// twice at different costs keeps only the cheaper entry live; stale
// duplicates left in the heap by a cost decrease are discarded lazily when
// popped (lazy decrease-key).
type Queue struct {
	table *annotate.Table
	heap  itemHeap
	best  map[ir.GroupIndex]annotate.Cost
	// floor is the cost of the last bucket emitted; costbucket discipline
	// requires every subsequent bucket's cost to be >= floor (monotonicity
	// enforced by the caller only ever improving costs, never worsening
	// them — see annotate.Policy.Improves).
	floor annotate.Cost
}

// NewQueue builds an empty queue whose popped costs are always
// cross-checked against table (the authoritative current cost for each
// atom).
func NewQueue(table *annotate.Table) *Queue {
	return &Queue{table: table, best: make(map[ir.GroupIndex]annotate.Cost)}
}

// Push records that atom is now a candidate at cost. A no-op if atom is
// already queued at an equal or cheaper cost.
func (q *Queue) Push(atom ir.GroupIndex, cost annotate.Cost) {
	if prior, ok := q.best[atom]; ok && prior <= cost {
		return
	}
	q.best[atom] = cost
	heap.Push(&q.heap, item{atom: atom, cost: cost})
}

// NextBucket pops every entry tied at the current minimum cost, skipping
// stale duplicates (an entry whose recorded cost no longer matches the
// table's current cost for that atom, because a cheaper Push has since
// superseded it). Returns the bucket's atoms, their shared cost, and false
// once the queue is empty.
func (q *Queue) NextBucket() ([]ir.GroupIndex, annotate.Cost, bool) {
	var bucket []ir.GroupIndex
	var bucketCost annotate.Cost
	started := false

	for q.heap.Len() > 0 {
		top := q.heap[0]
		if started && top.cost != bucketCost {
			break
		}
		heap.Pop(&q.heap)

		if q.table.Cost(top.atom) != top.cost {
			// Superseded by a cheaper push since this entry was queued.
			continue
		}
		if !started {
			bucketCost = top.cost
			started = true
		}
		bucket = append(bucket, top.atom)
		delete(q.best, top.atom)
	}

	if !started {
		return nil, 0, false
	}
	q.floor = bucketCost
	return bucket, bucketCost, true
}

// Floor returns the cost of the most recently emitted bucket (0 before any
// bucket has been emitted).
func (q *Queue) Floor() annotate.Cost { return q.floor }

// Empty reports whether the queue currently holds no live candidates.
func (q *Queue) Empty() bool { return len(q.best) == 0 }
