package runner

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuon9/workdiff/internal/cache"
	"github.com/vuon9/workdiff/internal/config"
	"github.com/vuon9/workdiff/internal/executor"
	"github.com/vuon9/workdiff/internal/models"
)

// testSetup builds four workspaces under a temp root: the reference lives in
// "main" with three lines, "same" holds an identical copy, "edited" has one
// line changed, and "empty" has no file at all.
type testSetup struct {
	cfg           *config.GlobalConfig
	coordinator   *Coordinator
	referencePath string
}

func newTestSetup(t *testing.T) *testSetup {
	t.Helper()
	root := t.TempDir()

	writeFile := func(workspace, content string) string {
		dir := filepath.Join(root, workspace)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		path := filepath.Join(dir, "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	referencePath := writeFile("main", "alpha\nbeta\ngamma\n")
	writeFile("same", "alpha\nbeta\ngamma\n")
	writeFile("edited", "alpha\nBETA\ngamma\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	cfg := config.NewDefaultGlobalConfig()
	cfg.Groups = []config.GroupConfig{{
		Name: "test",
		Workspaces: []config.WorkspaceConfig{
			{Name: "main", Path: filepath.Join(root, "main")},
			{Name: "empty", Path: filepath.Join(root, "empty")},
			{Name: "edited", Path: filepath.Join(root, "edited")},
			{Name: "same", Path: filepath.Join(root, "same")},
		},
	}}

	resultCache, err := cache.NewResultCache(cfg.CacheConfig.MaxEntries, zerolog.Nop())
	require.NoError(t, err)

	return &testSetup{
		cfg:           cfg,
		coordinator:   NewCoordinator(cfg, resultCache, zerolog.Nop()),
		referencePath: referencePath,
	}
}

func TestRun_EndToEnd(t *testing.T) {
	setup := newTestSetup(t)

	outcome, err := setup.coordinator.Run(context.Background(), RunOptions{ReferencePath: setup.referencePath})
	require.NoError(t, err)
	require.NotNil(t, outcome)

	assert.Equal(t, "test", outcome.Group.Name)
	assert.Equal(t, "main", outcome.Project.Name)

	// The reference's own workspace is filtered out; existing targets come
	// first ordered by ascending change size, missing targets last.
	require.Len(t, outcome.Results, 3)

	assert.Equal(t, "same", outcome.Results[0].Label)
	assert.True(t, outcome.Results[0].Exists)
	assert.Equal(t, models.DiffCounts{}, outcome.Results[0].Counts)

	assert.Equal(t, "edited", outcome.Results[1].Label)
	assert.True(t, outcome.Results[1].Exists)
	assert.Equal(t, models.DiffCounts{Added: 1, Removed: 1}, outcome.Results[1].Counts)
	assert.Equal(t, 2, outcome.Results[1].TotalChangedLines)

	assert.Equal(t, "empty", outcome.Results[2].Label)
	assert.False(t, outcome.Results[2].Exists)
	assert.Equal(t, models.DiffCounts{}, outcome.Results[2].Counts)
}

func TestRun_WhitespaceInsensitiveGroup(t *testing.T) {
	setup := newTestSetup(t)
	setup.cfg.Groups[0].IgnoreWhitespace = true

	editedPath := filepath.Join(filepath.Dir(setup.referencePath), "..", "edited", "notes.txt")
	require.NoError(t, os.WriteFile(editedPath, []byte("alpha\nbeta   \ngamma\n"), 0o644))

	outcome, err := setup.coordinator.Run(context.Background(), RunOptions{ReferencePath: setup.referencePath})
	require.NoError(t, err)

	for _, result := range outcome.Results {
		if result.Label == "edited" {
			assert.Equal(t, models.DiffCounts{}, result.Counts, "trailing whitespace must not count as a change")
		}
	}
}

func TestRun_SecondRunServedFromCache(t *testing.T) {
	setup := newTestSetup(t)

	var executed atomic.Int64
	baseTask := setup.coordinator.taskFn
	setup.coordinator.taskFn = func(ctx context.Context, req models.ComparisonRequest) (models.ComparisonResult, error) {
		executed.Add(1)
		return baseTask(ctx, req)
	}

	_, err := setup.coordinator.Run(context.Background(), RunOptions{ReferencePath: setup.referencePath})
	require.NoError(t, err)
	firstRunTasks := executed.Load()
	assert.Equal(t, int64(2), firstRunTasks, "same-file and missing targets never reach the pool")

	outcome, err := setup.coordinator.Run(context.Background(), RunOptions{ReferencePath: setup.referencePath})
	require.NoError(t, err)
	assert.Equal(t, firstRunTasks, executed.Load(), "unchanged pairs must be served from cache")
	require.Len(t, outcome.Results, 3)
	assert.Equal(t, "same", outcome.Results[0].Label)
}

func TestRun_NoMatchingGroup(t *testing.T) {
	setup := newTestSetup(t)

	outside := filepath.Join(t.TempDir(), "elsewhere.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x\n"), 0o644))

	_, err := setup.coordinator.Run(context.Background(), RunOptions{ReferencePath: outside})
	assert.ErrorIs(t, err, config.ErrNoMatchingGroup)
}

func TestRun_MissingReferenceIsDataNotFailure(t *testing.T) {
	setup := newTestSetup(t)
	require.NoError(t, os.Remove(setup.referencePath))

	outcome, err := setup.coordinator.Run(context.Background(), RunOptions{ReferencePath: setup.referencePath})
	require.NoError(t, err)

	// Absence is not a diff: every target reports zero counts.
	require.Len(t, outcome.Results, 3)
	for _, result := range outcome.Results {
		assert.Equal(t, models.DiffCounts{}, result.Counts)
		assert.Equal(t, 0, result.TotalChangedLines)
	}
}

func TestRun_NewerRunSupersedesOlder(t *testing.T) {
	setup := newTestSetup(t)

	release := make(chan struct{})
	baseTask := setup.coordinator.taskFn
	setup.coordinator.taskFn = func(ctx context.Context, req models.ComparisonRequest) (models.ComparisonResult, error) {
		select {
		case <-release:
		case <-ctx.Done():
			return models.ComparisonResult{}, ctx.Err()
		}
		return baseTask(ctx, req)
	}

	firstDone := make(chan error, 1)
	go func() {
		_, err := setup.coordinator.Run(context.Background(), RunOptions{ReferencePath: setup.referencePath})
		firstDone <- err
	}()

	// Wait until the first run has actually started work before starting
	// the superseding run.
	require.Eventually(t, func() bool {
		return setup.coordinator.runSeq.Load() >= 1
	}, 2*time.Second, 5*time.Millisecond)

	secondDone := make(chan error, 1)
	var secondOutcome *RunOutcome
	go func() {
		outcome, err := setup.coordinator.Run(context.Background(), RunOptions{ReferencePath: setup.referencePath})
		secondOutcome = outcome
		secondDone <- err
	}()

	// The first run must resolve silently as superseded, whichever order
	// the two runs finish in.
	select {
	case err := <-firstDone:
		assert.ErrorIs(t, err, ErrRunSuperseded)
		assert.True(t, IsSilent(err))
	case <-time.After(5 * time.Second):
		t.Fatal("first run did not settle")
	}

	close(release)
	select {
	case err := <-secondDone:
		require.NoError(t, err)
		require.NotNil(t, secondOutcome)
		assert.Len(t, secondOutcome.Results, 3)
	case <-time.After(5 * time.Second):
		t.Fatal("second run did not settle")
	}
}

func TestRun_ExecutorFaultDegradesSingleTarget(t *testing.T) {
	setup := newTestSetup(t)

	baseTask := setup.coordinator.taskFn
	setup.coordinator.taskFn = func(ctx context.Context, req models.ComparisonRequest) (models.ComparisonResult, error) {
		if req.TargetLabel == "edited" {
			panic("simulated executor crash")
		}
		return baseTask(ctx, req)
	}

	outcome, err := setup.coordinator.Run(context.Background(), RunOptions{ReferencePath: setup.referencePath})
	require.NoError(t, err)

	require.Len(t, outcome.Results, 3)
	for _, result := range outcome.Results {
		if result.Label == "edited" {
			assert.False(t, result.Exists, "failed comparison degrades to a missing result")
		}
		if result.Label == "same" {
			assert.True(t, result.Exists, "other targets are unaffected")
		}
	}
}

func TestIsSilent(t *testing.T) {
	assert.True(t, IsSilent(ErrRunSuperseded))
	assert.True(t, IsSilent(context.Canceled))
	assert.False(t, IsSilent(assert.AnError))
	assert.False(t, IsSilent(executor.ErrPoolClosed))
}
