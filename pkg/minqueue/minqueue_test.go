package minqueue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmptyQueue(t *testing.T) {
	q := New()
	require.True(t, q.Empty())
	require.Equal(t, 0, q.Size())

	_, err := q.PeekKey()
	require.ErrorIs(t, err, ErrEmpty)

	_, err = q.PeekPriority()
	require.ErrorIs(t, err, ErrEmpty)

	_, err = q.Pop()
	require.ErrorIs(t, err, ErrEmpty)
}

func TestAddOrUpdateOrdersByPriority(t *testing.T) {
	q := New()
	q.AddOrUpdate(1, 30)
	q.AddOrUpdate(2, 10)
	q.AddOrUpdate(3, 20)
	require.Equal(t, 3, q.Size())

	key, err := q.PeekKey()
	require.NoError(t, err)
	require.Equal(t, 2, key)

	order := []int{}
	for !q.Empty() {
		k, err := q.Pop()
		require.NoError(t, err)
		order = append(order, k)
	}
	require.Equal(t, []int{2, 3, 1}, order)
}

func TestAddOrUpdateDecreaseKey(t *testing.T) {
	q := New()
	q.AddOrUpdate(1, 100)
	q.AddOrUpdate(2, 50)
	q.AddOrUpdate(1, 10)

	p, ok := q.Priority(1)
	require.True(t, ok)
	require.Equal(t, 10, p)

	key, err := q.PeekKey()
	require.NoError(t, err)
	require.Equal(t, 1, key)
}

func TestAddOrUpdateIncreaseKey(t *testing.T) {
	q := New()
	q.AddOrUpdate(1, 1)
	q.AddOrUpdate(2, 50)
	q.AddOrUpdate(1, 1000)

	key, err := q.PeekKey()
	require.NoError(t, err)
	require.Equal(t, 2, key)
}

func TestRemove(t *testing.T) {
	q := New()
	q.AddOrUpdate(1, 1)
	q.AddOrUpdate(2, 2)
	q.AddOrUpdate(3, 3)

	q.Remove(1)
	require.False(t, q.Contains(1))
	require.Equal(t, 2, q.Size())

	q.Remove(42)
	require.Equal(t, 2, q.Size())
}

func TestClear(t *testing.T) {
	q := New()
	q.AddOrUpdate(1, 1)
	q.AddOrUpdate(2, 2)
	q.Clear()
	require.True(t, q.Empty())
	require.False(t, q.Contains(1))
}
