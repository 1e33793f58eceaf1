package values

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapPreservesInsertionOrder(t *testing.T) {
	m := NewMap(4)
	require.NoError(t, m.SetKey(String("z"), Number(1)))
	require.NoError(t, m.SetKey(String("a"), Number(2)))
	require.NoError(t, m.SetKey(String("m"), Number(3)))

	items := m.Items()
	require.Len(t, items, 3)
	require.Equal(t, String("z"), items[0][0])
	require.Equal(t, String("a"), items[1][0])
	require.Equal(t, String("m"), items[2][0])
}

func TestMapOverwriteKeepsPosition(t *testing.T) {
	m := NewMap(4)
	require.NoError(t, m.SetKey(String("a"), Number(1)))
	require.NoError(t, m.SetKey(String("b"), Number(2)))
	require.NoError(t, m.SetKey(String("a"), Number(99)))

	items := m.Items()
	require.Len(t, items, 2)
	require.Equal(t, String("a"), items[0][0])
	require.Equal(t, Number(99), items[0][1])
}

func TestMapMutationWhileIteratingErrors(t *testing.T) {
	m := NewMap(4)
	require.NoError(t, m.SetKey(String("a"), Number(1)))

	it := m.Iterate()
	defer it.Done()

	err := m.SetKey(String("b"), Number(2))
	require.Error(t, err)
	e, ok := AsError(err, RuntimeErrorKind)
	require.True(t, ok)
	require.Contains(t, e.Message, "iterating")
}

func TestMapDeleteThenReinsert(t *testing.T) {
	m := NewMap(4)
	require.NoError(t, m.SetKey(String("a"), Number(1)))
	ok, err := m.Delete(String("a"))
	require.NoError(t, err)
	require.True(t, ok)

	_, found, err := m.Get(String("a"))
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, m.SetKey(String("a"), Number(2)))
	items := m.Items()
	require.Len(t, items, 1)
}

func TestSetOrderingAndMembership(t *testing.T) {
	s := NewSet(4)
	added, err := s.Add(Number(3))
	require.NoError(t, err)
	require.True(t, added)
	added, err = s.Add(Number(1))
	require.NoError(t, err)
	require.True(t, added)
	added, err = s.Add(Number(3))
	require.NoError(t, err)
	require.False(t, added)

	has, err := s.Has(Number(1))
	require.NoError(t, err)
	require.True(t, has)

	var vals []Value
	it := s.Iterate()
	var v Value
	for it.Next(&v) {
		vals = append(vals, v)
	}
	it.Done()
	require.Equal(t, []Value{Number(3), Number(1)}, vals)
}

func TestListIterationBorrowCheck(t *testing.T) {
	l := NewList([]Value{Number(1), Number(2)})
	it := l.Iterate()
	defer it.Done()

	err := l.Append(Number(3))
	require.Error(t, err)
	e, ok := AsError(err, RuntimeErrorKind)
	require.True(t, ok)
	require.Contains(t, e.Message, "iterating")
}

func TestListIterationReleasesAfterDone(t *testing.T) {
	l := NewList([]Value{Number(1)})
	it := l.Iterate()
	it.Done()
	require.NoError(t, l.Append(Number(2)))
	require.Equal(t, 2, l.Len())
}
