package assign_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liftedplan/kpkc/assign"
)

func TestPredicateAssignmentSet_VertexAndEdge(t *testing.T) {
	s := assign.NewPredicateAssignmentSet(2, 5)
	s.Add([]int{1, 3}) // at(obj1=1, obj2=3)

	require.True(t, s.HasVertex(0, 1))
	require.True(t, s.HasVertex(1, 3))
	require.False(t, s.HasVertex(0, 3))
	require.True(t, s.HasEdge(0, 1, 1, 3))
	require.False(t, s.HasEdge(0, 3, 1, 1))
}

func TestPredicateAssignmentSet_UnaryConsistencyChecks(t *testing.T) {
	s := assign.NewPredicateAssignmentSet(1, 4)
	s.Add([]int{2})

	require.True(t, s.PositiveUnaryConsistent(0, 2))
	require.False(t, s.PositiveUnaryConsistent(0, 0))
	require.False(t, s.NegatedUnaryConsistent(0, 2))
	require.True(t, s.NegatedUnaryConsistent(0, 0))
}

func TestPredicateAssignmentSet_OutOfRangeIsFalse(t *testing.T) {
	s := assign.NewPredicateAssignmentSet(1, 2)
	require.False(t, s.HasVertex(5, 0))
	require.False(t, s.HasEdge(0, 0, 5, 0))
}

func TestFunctionAssignmentSet_ObserveWidensInterval(t *testing.T) {
	s := assign.NewFunctionAssignmentSet(1, 3)
	require.True(t, s.Interval(0, 1).Empty())

	s.Observe(0, 1, 5)
	s.Observe(0, 1, 2)
	s.Observe(0, 1, 8)

	iv := s.Interval(0, 1)
	require.False(t, iv.Empty())
	require.Equal(t, 2.0, iv.Lo)
	require.Equal(t, 8.0, iv.Hi)
	require.True(t, iv.Contains(5))
	require.False(t, iv.Contains(9))
}

func TestFunctionAssignmentSet_UnobservedOutOfRangeIsEmpty(t *testing.T) {
	s := assign.NewFunctionAssignmentSet(2, 2)
	require.True(t, s.Interval(5, 5).Empty())
}
