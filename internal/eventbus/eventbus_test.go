package eventbus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOnAndEmit(t *testing.T) {
	var b Bus
	var gotOld, gotNew any

	b.On(PropertyState, func(old, new any) {
		gotOld, gotNew = old, new
	})

	b.Emit(PropertyState, 1, 2)
	require.Equal(t, 1, gotOld)
	require.Equal(t, 2, gotNew)
}

func TestEmitWithNoListenersIsNoop(t *testing.T) {
	var b Bus
	require.NotPanics(t, func() {
		b.Emit(PropertyProgress, nil, 50)
	})
}

func TestMultipleListenersAllCalled(t *testing.T) {
	var b Bus
	calls := 0
	b.On(PropertySelection, func(old, new any) { calls++ })
	b.On(PropertySelection, func(old, new any) { calls++ })

	b.Emit(PropertySelection, nil, nil)
	require.Equal(t, 2, calls)
}
