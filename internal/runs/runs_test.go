package runs_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/newsharvest/internal/domain"
	"github.com/jonesrussell/newsharvest/internal/runs"
)

func TestRegistry_SingleActiveRunPerPath(t *testing.T) {
	t.Parallel()

	registry := runs.NewRegistry(100)

	run, err := registry.Begin("articles.json")
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.NotEmpty(t, run.ID())
	assert.Equal(t, runs.StatusRunning, run.Status())

	_, err = registry.Begin("articles.json")
	assert.ErrorIs(t, err, runs.ErrRunActive)

	// A different store path is a different slot.
	other, err := registry.Begin("other.json")
	require.NoError(t, err)
	assert.NotEqual(t, run.ID(), other.ID())
}

func TestRegistry_RelativeAndAbsolutePathsShareOneSlot(t *testing.T) {
	t.Parallel()

	registry := runs.NewRegistry(100)

	_, err := registry.Begin("articles.json")
	require.NoError(t, err)

	abs, absErr := filepath.Abs("articles.json")
	require.NoError(t, absErr)

	_, err = registry.Begin(abs)
	assert.ErrorIs(t, err, runs.ErrRunActive)
}

func TestRegistry_FinishReleasesPath(t *testing.T) {
	t.Parallel()

	registry := runs.NewRegistry(100)

	run, err := registry.Begin("articles.json")
	require.NoError(t, err)

	report := domain.RunReport{Processed: 3, Skipped: 1}
	registry.Finish(run, report)

	assert.Equal(t, runs.StatusDone, run.Status())
	got, done := run.Report()
	assert.True(t, done)
	assert.Equal(t, report, got)

	// The path is free again.
	next, err := registry.Begin("articles.json")
	require.NoError(t, err)
	assert.NotEqual(t, run.ID(), next.ID())
}

func TestRegistry_CurrentPrefersActiveThenLast(t *testing.T) {
	t.Parallel()

	registry := runs.NewRegistry(100)

	_, ok := registry.Current("articles.json")
	assert.False(t, ok, "no run yet")

	first, err := registry.Begin("articles.json")
	require.NoError(t, err)

	current, ok := registry.Current("articles.json")
	require.True(t, ok)
	assert.Equal(t, first.ID(), current.ID())

	registry.Finish(first, domain.RunReport{})

	// Finished runs stay queryable until replaced.
	current, ok = registry.Current("articles.json")
	require.True(t, ok)
	assert.Equal(t, first.ID(), current.ID())
	assert.Equal(t, runs.StatusDone, current.Status())

	second, err := registry.Begin("articles.json")
	require.NoError(t, err)

	current, ok = registry.Current("articles.json")
	require.True(t, ok)
	assert.Equal(t, second.ID(), current.ID())
}

func TestRun_LogLinesInOrder(t *testing.T) {
	t.Parallel()

	registry := runs.NewRegistry(100)

	run, err := registry.Begin("articles.json")
	require.NoError(t, err)

	run.Log("first")
	run.Log("second")

	assert.Equal(t, []string{"first", "second"}, run.Lines())
}
