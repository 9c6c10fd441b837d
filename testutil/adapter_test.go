package testutil

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/comalice/heapsim/internal/gc"
)

// TestAdaptersAgree verifies that both adapters execute the same phases and
// leave the heap in the same state.
func TestAdaptersAgree(t *testing.T) {
	for _, kind := range gc.Kinds() {
		cycles, err := gc.Sequences(kind)
		require.NoError(t, err)

		for _, cycle := range cycles {
			t.Run(string(kind)+"/"+cycle.Name, func(t *testing.T) {
				var results []any
				for _, a := range Adapters() {
					m := RandomHeap(11, 60, 1.5)
					c, err := gc.New(kind, m)
					require.NoError(t, err)
					require.NoError(t, gc.StartCycle(c, cycle.Name))

					phases, err := a.Drive(context.Background(), c)
					require.NoError(t, err, a.Name())
					require.Equal(t, cycle.Phases, phases, a.Name())
					require.False(t, c.Running())

					results = append(results, m.Snapshot())
				}

				if diff := cmp.Diff(results[0], results[1]); diff != "" {
					t.Errorf("adapters disagree (-direct +driver):\n%s", diff)
				}
			})
		}
	}
}

func TestDirectAdapterCancelled(t *testing.T) {
	m := RandomHeap(1, 5, 1)
	c := gc.NewSerial(m)
	c.StartMinor()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	phases, err := DirectAdapter{}.Drive(ctx, c)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, phases)
}

func TestRandomHeapDeterministic(t *testing.T) {
	a, b := RandomHeap(5, 30, 2), RandomHeap(5, 30, 2)
	require.Empty(t, cmp.Diff(a.Snapshot(), b.Snapshot()))
	require.Equal(t, 30, a.Store().Len())
}
