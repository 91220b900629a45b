package logs_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/newsharvest/internal/logs"
)

func TestBuffer_WriteAndReadAll(t *testing.T) {
	t.Parallel()

	buf := logs.NewBuffer(10)

	buf.Write("one")
	buf.Write("two")
	buf.Write("three")

	entries := buf.ReadAll()
	assert.Len(t, entries, 3)
	assert.Equal(t, "one", entries[0].Message)
	assert.Equal(t, "three", entries[2].Message)
	assert.False(t, entries[0].Timestamp.IsZero())

	assert.Equal(t, []string{"one", "two", "three"}, buf.Lines())
	assert.Equal(t, 3, buf.Size())
	assert.Equal(t, 3, buf.LineCount())
}

func TestBuffer_WrapsAroundKeepingNewest(t *testing.T) {
	t.Parallel()

	buf := logs.NewBuffer(3)

	for i := 1; i <= 5; i++ {
		buf.Write(fmt.Sprintf("line %d", i))
	}

	assert.Equal(t, []string{"line 3", "line 4", "line 5"}, buf.Lines())
	assert.Equal(t, 3, buf.Size())
	assert.Equal(t, 5, buf.LineCount(), "total written count survives eviction")
}

func TestBuffer_NonPositiveSizeFallsBackToDefault(t *testing.T) {
	t.Parallel()

	buf := logs.NewBuffer(0)

	for i := 0; i < 600; i++ {
		buf.Write("x")
	}

	assert.Equal(t, 500, buf.Size())
	assert.Equal(t, 600, buf.LineCount())
}

func TestBuffer_Empty(t *testing.T) {
	t.Parallel()

	buf := logs.NewBuffer(4)

	assert.Empty(t, buf.ReadAll())
	assert.Empty(t, buf.Lines())
	assert.Zero(t, buf.Size())
}
