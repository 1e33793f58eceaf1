package values

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyNaNBitsDistinct(t *testing.T) {
	nan1 := math.Float64frombits(0x7ff8000000000001)
	nan2 := math.Float64frombits(0x7ff8000000000002)
	k1, err := ToKey(Number(nan1))
	require.NoError(t, err)
	k2, err := ToKey(Number(nan2))
	require.NoError(t, err)
	require.NotEqual(t, k1, k2)

	bits1, ok := k1.NumberBits()
	require.True(t, ok)
	require.Equal(t, math.Float64bits(nan1), bits1)
}

func TestKeyEqualForEqualScalars(t *testing.T) {
	k1, err := ToKey(String("hello"))
	require.NoError(t, err)
	k2, err := ToKey(String("hello"))
	require.NoError(t, err)
	require.Equal(t, k1, k2)

	k3, err := ToKey(Number(1))
	require.NoError(t, err)
	k4, err := ToKey(Number(1))
	require.NoError(t, err)
	require.Equal(t, k3, k4)
}

func TestKeyListRoundTripViaMapEntry(t *testing.T) {
	m := NewMap(4)
	key1 := NewList([]Value{Number(1), String("a")})
	key2 := NewList([]Value{Number(1), String("a")})
	require.NoError(t, m.SetKey(key1, Number(99)))

	got, found, err := m.Get(key2)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, Number(99), got)

	// The original Value is preserved verbatim in the entry (round trip per
	// spec.md §8 invariant 6), not reconstructed from the Key encoding.
	items := m.Items()
	require.Len(t, items, 1)
	require.Same(t, key1, items[0][0])
}

func TestKeyDistinguishesDifferentListContents(t *testing.T) {
	k1, err := ToKey(NewList([]Value{Number(1)}))
	require.NoError(t, err)
	k2, err := ToKey(NewList([]Value{Number(2)}))
	require.NoError(t, err)
	require.NotEqual(t, k1, k2)
}

func TestKeyUnhashableType(t *testing.T) {
	_, err := ToKey(&Function{Name: "f"})
	require.Error(t, err)
	e, ok := AsError(err, TypeErrorKind)
	require.True(t, ok)
	require.Contains(t, e.Message, "unhashable")
}
