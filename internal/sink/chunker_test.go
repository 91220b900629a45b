package sink_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/newsharvest/internal/sink"
)

func TestSplitText_ShortTextIsSingleChunk(t *testing.T) {
	t.Parallel()

	chunks := sink.SplitText("A short article body.", sink.DefaultChunkSize, sink.DefaultChunkOverlap)

	assert.Equal(t, []string{"A short article body."}, chunks)
}

func TestSplitText_EmptyAndWhitespaceYieldNothing(t *testing.T) {
	t.Parallel()

	assert.Empty(t, sink.SplitText("", 100, 20))
	assert.Empty(t, sink.SplitText("   \n\n  ", 100, 20))
}

func TestSplitText_ChunksRespectSizeBound(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("Sentence number with some padding words here. ")
	}

	chunks := sink.SplitText(b.String(), 200, 40)

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 200)
	}
}

func TestSplitText_PrefersParagraphBoundary(t *testing.T) {
	t.Parallel()

	first := strings.Repeat("a", 60)
	second := strings.Repeat("b", 60)
	text := first + "\n\n" + second

	chunks := sink.SplitText(text, 100, 0)

	require.Len(t, chunks, 2)
	assert.Equal(t, first, chunks[0], "break lands on the paragraph boundary, not mid-word")
	assert.Equal(t, second, chunks[1])
}

func TestSplitText_OverlapCarriesTrailingText(t *testing.T) {
	t.Parallel()

	words := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		words = append(words, "word")
	}
	text := strings.Join(words, " ")

	chunks := sink.SplitText(text, 100, 30)
	require.Greater(t, len(chunks), 1)

	// The tail of each chunk reappears at the head of the next one.
	tail := chunks[0][len(chunks[0])-10:]
	assert.Contains(t, chunks[1], tail)
}

func TestSplitText_MultibyteRunesAreNotSplit(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("日本語テキスト ", 40)

	chunks := sink.SplitText(text, 50, 10)

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk))
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 50)
	}
}

func TestSplitText_DegenerateParamsFallBack(t *testing.T) {
	t.Parallel()

	// Non-positive size and an overlap larger than the size both fall back to
	// workable values instead of looping.
	text := strings.Repeat("x ", 2000)

	assert.NotEmpty(t, sink.SplitText(text, 0, 0))
	assert.NotEmpty(t, sink.SplitText(text, 100, 100))
}
