package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulatorFoldsDeltasIntoOneMessage(t *testing.T) {
	acc := NewAccumulator()
	for _, d := range []string{"A", "B", "C"} {
		acc.ApplyDelta(d)
	}

	msgs := acc.Snapshot()
	require.Len(t, msgs, 1)
	assert.Equal(t, "assistant", msgs[0].Role)
	assert.Equal(t, "ABC", msgs[0].Content)
}

func TestAccumulatorAfterUserMessage(t *testing.T) {
	acc := NewAccumulator()
	acc.AppendUser("hello")
	for _, d := range []string{"A", "B", "C"} {
		acc.ApplyDelta(d)
	}

	msgs := acc.Snapshot()
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, "assistant", msgs[1].Role)
	assert.Equal(t, "ABC", msgs[1].Content)
}

func TestAccumulatorIgnoresDeltasAfterSeal(t *testing.T) {
	acc := NewAccumulator()
	acc.ApplyDelta("done")
	acc.Seal()
	acc.ApplyDelta(" extra")

	msgs := acc.Snapshot()
	require.Len(t, msgs, 1)
	assert.Equal(t, "done", msgs[0].Content)
}

func TestAccumulatorReopensOnNextUserMessage(t *testing.T) {
	acc := NewAccumulator()
	acc.AppendUser("q1")
	acc.ApplyDelta("a1")
	acc.Seal()

	acc.AppendUser("q2")
	acc.ApplyDelta("a2")

	msgs := acc.Snapshot()
	require.Len(t, msgs, 4)
	assert.Equal(t, "a1", msgs[1].Content)
	assert.Equal(t, "q2", msgs[2].Content)
	assert.Equal(t, "a2", msgs[3].Content)
}

func TestAccumulatorClear(t *testing.T) {
	acc := NewAccumulator()
	acc.AppendUser("hi")
	acc.ApplyDelta("there")
	acc.Clear()

	assert.Empty(t, acc.Snapshot())

	// cleared conversations accept new deltas again
	acc.ApplyDelta("fresh")
	msgs := acc.Snapshot()
	require.Len(t, msgs, 1)
	assert.Equal(t, "fresh", msgs[0].Content)
}

func TestAccumulatorEmptyDeltaIsNoop(t *testing.T) {
	acc := NewAccumulator()
	acc.ApplyDelta("")
	assert.Empty(t, acc.Snapshot())
}
