// File: grouped.go
// Role: per-group (predicate or function) overlay repositories, giving each
// group its own densely-numbered, independently-overlaid arena.
package ir

import "sync"

// GroupedOverlay layers the parent/local split of Overlay once per group.
// Every group is itself an Overlay on top of the
// corresponding group in the parent GroupedOverlay, so group (g) in a
// worker's local store forwards to group (g) in the program store before
// allocating new local entries.
type GroupedOverlay[T Data] struct {
	parent *GroupedOverlay[T]

	mu    sync.Mutex
	local map[Index]*Overlay[T]
}

// NewGroupedOverlay builds a GroupedOverlay on top of parent (nil for a
// root grouped repository with no groups yet).
func NewGroupedOverlay[T Data](parent *GroupedOverlay[T]) *GroupedOverlay[T] {
	return &GroupedOverlay[T]{parent: parent, local: make(map[Index]*Overlay[T])}
}

// repoFor returns (creating if necessary) the local overlay for group,
// wired to read through the parent's same group.
func (g *GroupedOverlay[T]) repoFor(group Index) *Overlay[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	if o, ok := g.local[group]; ok {
		return o
	}
	var parentRead ReadRepository[T] = emptyRepository[T]{}
	if g.parent != nil {
		parentRead = g.parent.repoFor(group)
	}
	o := NewOverlay[T](parentRead)
	g.local[group] = o
	return o
}

// Find reports the GroupIndex of data within group, if already interned in
// this GroupedOverlay or one of its ancestors.
func (g *GroupedOverlay[T]) Find(group Index, data T) (GroupIndex, bool) {
	value, ok := g.repoFor(group).Find(data)
	return GroupIndex{Group: group, Value: value}, ok
}

// GetOrCreate interns data within group if absent.
func (g *GroupedOverlay[T]) GetOrCreate(group Index, data T) (GroupIndex, bool) {
	value, inserted := g.repoFor(group).GetOrCreate(data)
	return GroupIndex{Group: group, Value: value}, inserted
}

// Get returns the interned value at idx.
func (g *GroupedOverlay[T]) Get(idx GroupIndex) T {
	return g.repoFor(idx.Group).Get(idx.Value)
}

// Size returns the number of entries interned for group, counting the
// parent chain.
func (g *GroupedOverlay[T]) Size(group Index) Index {
	return g.repoFor(group).Size()
}

// Groups returns the set of group indices that have at least one local
// entry in this GroupedOverlay (not counting ancestors).
func (g *GroupedOverlay[T]) Groups() []Index {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Index, 0, len(g.local))
	for group, o := range g.local {
		if o.LocalSize() > 0 {
			out = append(out, group)
		}
	}
	return out
}

// Merge applies fn to every entry interned locally (in any group) since
// construction.
func (g *GroupedOverlay[T]) Merge(fn func(group Index, idx GroupIndex, data T)) {
	g.mu.Lock()
	groups := make([]Index, 0, len(g.local))
	for group := range g.local {
		groups = append(groups, group)
	}
	g.mu.Unlock()
	for _, group := range groups {
		o := g.repoFor(group)
		o.Merge(func(value Index, data T) {
			fn(group, GroupIndex{Group: group, Value: value}, data)
		})
	}
}

// GroupMergeEntry is one remapped group-indexed entry produced by
// GroupedOverlay.MergeInto.
type GroupMergeEntry struct {
	From     GroupIndex
	To       GroupIndex
	Inserted bool
}

// MergeInto re-interns every entry this GroupedOverlay created locally (in
// any group) into dst, and returns one GroupMergeEntry per local entry. See
// Overlay.MergeInto for why this remap is necessary.
func (g *GroupedOverlay[T]) MergeInto(dst *GroupedOverlay[T]) []GroupMergeEntry {
	g.mu.Lock()
	groups := make([]Index, 0, len(g.local))
	for group := range g.local {
		groups = append(groups, group)
	}
	g.mu.Unlock()

	var out []GroupMergeEntry
	for _, group := range groups {
		src := g.repoFor(group)
		dstRepo := dst.repoFor(group)
		for _, e := range src.MergeInto(dstRepo) {
			out = append(out, GroupMergeEntry{
				From:     GroupIndex{Group: group, Value: e.From},
				To:       GroupIndex{Group: group, Value: e.To},
				Inserted: e.Inserted,
			})
		}
	}
	return out
}

// Clear empties every local group overlay, keeping backing memory.
func (g *GroupedOverlay[T]) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, o := range g.local {
		o.Clear()
	}
}
