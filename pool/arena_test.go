package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArenaAllocAndGet(t *testing.T) {
	a := NewArena[int]("ints", 2)

	off0, p0, err := a.Alloc()
	require.NoError(t, err)
	*p0 = 42
	require.Equal(t, Offset(0), off0)

	off1, p1, err := a.Alloc()
	require.NoError(t, err)
	*p1 = 7
	require.Equal(t, Offset(1), off1)

	require.Equal(t, 42, *a.Get(off0))
	require.Equal(t, 7, *a.Get(off1))
	require.Equal(t, 2, a.Len())
}

func TestArenaOverflow(t *testing.T) {
	a := NewArena[int]("ints", 1)

	_, _, err := a.Alloc()
	require.NoError(t, err)

	_, _, err = a.Alloc()
	require.Error(t, err)

	var overflow *OverflowError
	require.ErrorAs(t, err, &overflow)
	require.Equal(t, "ints", overflow.Pool)
	require.Equal(t, 1, overflow.Capacity)
}

func TestArenaGetInvalidOffset(t *testing.T) {
	a := NewArena[int]("ints", 4)
	require.Nil(t, a.Get(None))
	require.Nil(t, a.Get(Offset(99)))
}

func TestArenaMustGetPanicsOnInvalidOffset(t *testing.T) {
	a := NewArena[int]("ints", 4)
	require.Panics(t, func() {
		a.MustGet(Offset(5))
	})
}
