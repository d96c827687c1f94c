package runner

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vuon9/workdiff/internal/cache"
	"github.com/vuon9/workdiff/internal/common"
	"github.com/vuon9/workdiff/internal/config"
	"github.com/vuon9/workdiff/internal/executor"
	"github.com/vuon9/workdiff/internal/models"
)

// ErrRunSuperseded is returned when a newer run was started before this one
// could publish. Superseded runs resolve silently: their results are
// discarded, never merged or displayed.
var ErrRunSuperseded = errors.New("run superseded by a newer run")

// IsSilent reports whether a run error carries no user-visible failure:
// supersession and cancellation end runs without notification.
func IsSilent(err error) bool {
	return errors.Is(err, ErrRunSuperseded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// RunOptions selects what one run compares.
type RunOptions struct {
	// ReferencePath is the file compared against every workspace.
	ReferencePath string
	// GroupName optionally forces a specific comparison group instead of
	// path-prefix matching.
	GroupName string
}

// RunOutcome is the atomically published product of one completed run.
type RunOutcome struct {
	RunID         int64
	ReferencePath string
	Group         config.GroupConfig
	Project       config.WorkspaceConfig
	Results       []models.ComparisonResult
}

// Coordinator orchestrates diff runs. It is the single owner of the "current
// run" state: a monotonically increasing identifier is allocated per run,
// the previous run's cancellation handle is fired on every new allocation,
// and results are published only if the run's identifier is still current at
// publish time. The result cache is likewise only ever touched from runs the
// coordinator drives.
type Coordinator struct {
	cfg     *config.GlobalConfig
	cache   *cache.ResultCache
	checker *common.FileChecker
	reader  *common.FileReader
	taskFn  executor.TaskFunc
	logger  zerolog.Logger

	runSeq  atomic.Int64
	current atomic.Int64

	mu         sync.Mutex
	cancelPrev context.CancelFunc
}

// NewCoordinator creates a coordinator using the production comparator as
// the executor task body.
func NewCoordinator(cfg *config.GlobalConfig, resultCache *cache.ResultCache, logger zerolog.Logger) *Coordinator {
	componentLogger := logger.With().Str("component", "RunCoordinator").Logger()
	maxBytes := int64(cfg.DiffConfig.MaxFileSizeMB) * 1024 * 1024
	comparator := executor.NewComparator(maxBytes, logger)
	return &Coordinator{
		cfg:     cfg,
		cache:   resultCache,
		checker: common.NewFileChecker(cfg.DiffConfig.MaxFileSizeMB, logger),
		reader:  common.NewFileReader(maxBytes, componentLogger),
		taskFn:  comparator.Compare,
		logger:  componentLogger,
	}
}

// Run executes one complete "compare reference against all targets in the
// active group" cycle and returns the sorted result set.
//
// Failure modes: a run superseded or cancelled mid-flight returns an error
// for which IsSilent is true and publishes nothing. config.ErrNoMatchingGroup
// propagates as an explicit signal. Any other error is a run-level fault:
// it is logged here exactly once and the caller should render it as a single
// notification over an empty result set. Individual per-target failures
// never surface here; they degrade to missing-file entries in the results.
func (c *Coordinator) Run(ctx context.Context, opts RunOptions) (*RunOutcome, error) {
	runID := c.runSeq.Add(1)
	// Monotonic max: an older run racing this allocation must never win the
	// "current" slot back.
	for {
		cur := c.current.Load()
		if cur >= runID || c.current.CompareAndSwap(cur, runID) {
			break
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	if c.current.Load() == runID {
		// This run is the newest: supersede whichever run held the handle.
		if c.cancelPrev != nil {
			c.cancelPrev()
		}
		c.cancelPrev = cancel
	} else {
		// A newer run allocated in between; this one is stale on arrival
		// and must not touch the newer run's cancellation handle.
		cancel()
	}
	c.mu.Unlock()

	runLogger := c.logger.With().Int64("run_id", runID).Logger()
	runLogger.Debug().Str("reference", opts.ReferencePath).Msg("Diff run started")

	outcome, err := c.execute(runCtx, runID, opts, runLogger)

	// Publish gate: results computed under a superseded identifier must
	// never be surfaced, regardless of completion order.
	if c.current.Load() != runID {
		return nil, ErrRunSuperseded
	}
	if err != nil {
		if IsSilent(err) || errors.Is(err, config.ErrNoMatchingGroup) {
			return nil, err
		}
		runLogger.Error().Err(err).Msg("Diff run failed, degrading to empty result set")
		return nil, common.WrapError(err, "diff run failed")
	}

	runLogger.Debug().Int("results", len(outcome.Results)).Msg("Diff run completed")
	return outcome, nil
}

// Close cancels any in-flight run.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelPrev != nil {
		c.cancelPrev()
	}
}

// referenceState is what one run knows about its reference file. Content is
// read once per run and reused across all comparisons.
type referenceState struct {
	path    string
	content string
	modTime time.Time
	missing bool
}

func (c *Coordinator) execute(ctx context.Context, runID int64, opts RunOptions, runLogger zerolog.Logger) (*RunOutcome, error) {
	resolved, err := config.ResolveGroup(c.cfg.Groups, opts.ReferencePath, opts.GroupName)
	if err != nil {
		return nil, err
	}

	ref, err := c.loadReference(ctx, opts.ReferencePath)
	if err != nil {
		return nil, err
	}

	pool := executor.NewPool(c.cfg.ExecutorConfig.PoolSize, c.taskFn, c.logger)
	// Pool disposal runs to completion even when the run is cancelled.
	defer pool.Shutdown()

	workspaces := resolved.Group.Workspaces
	results := make([]models.ComparisonResult, len(workspaces))

	g, gctx := errgroup.WithContext(ctx)
	for i, ws := range workspaces {
		i, ws := i, ws
		g.Go(func() error {
			result, err := c.compareTarget(gctx, pool, ws, resolved.RelativePath, ref, resolved.Group.IgnoreWhitespace, runLogger)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &RunOutcome{
		RunID:         runID,
		ReferencePath: opts.ReferencePath,
		Group:         resolved.Group,
		Project:       resolved.Project,
		Results:       c.finalize(results, opts.ReferencePath),
	}, nil
}

// loadReference stats and reads the reference file once for the whole run.
// A missing reference is data, not failure; an ineligible one aborts the run.
func (c *Coordinator) loadReference(ctx context.Context, path string) (referenceState, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return referenceState{path: path, missing: true}, nil
		}
		return referenceState{}, common.WrapError(err, "failed to stat reference file")
	}

	if ok, reason := c.checker.Eligible(path); !ok {
		return referenceState{}, common.NewError("reference file %s is not eligible for diffing: %s", path, reason)
	}

	data, err := c.reader.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return referenceState{path: path, missing: true}, nil
		}
		return referenceState{}, common.WrapError(err, "failed to read reference file")
	}

	return referenceState{
		path:    path,
		content: string(data),
		modTime: info.ModTime(),
	}, nil
}

// compareTarget produces the result for one workspace. Only cancellation is
// returned as an error; every per-target failure degrades to a missing-file
// result so one bad target cannot abort the run.
func (c *Coordinator) compareTarget(
	ctx context.Context,
	pool *executor.Pool,
	ws config.WorkspaceConfig,
	relativePath string,
	ref referenceState,
	ignoreWhitespace bool,
	runLogger zerolog.Logger,
) (models.ComparisonResult, error) {
	targetPath := filepath.Join(ws.Path, relativePath)

	// The reference's own workspace short-circuits without touching the
	// cache or the pool.
	if common.SamePath(targetPath, ref.path) {
		return models.NewIdenticalResult(ws.Name, targetPath, ws.Path), nil
	}

	info, err := os.Stat(targetPath)
	if err != nil || info.IsDir() {
		return models.NewMissingResult(ws.Name, targetPath, ws.Path), nil
	}

	// With no reference content there is nothing to diff against; the
	// target's existence is still reported, with zero counts.
	if ref.missing {
		return models.NewComparisonResult(ws.Name, targetPath, ws.Path, models.DiffCounts{}), nil
	}

	keyParts := cache.KeyParts{
		BasePath:              ref.path,
		BaseModTime:           ref.modTime,
		ComparePath:           targetPath,
		CompareModTime:        info.ModTime(),
		WhitespaceInsensitive: ignoreWhitespace,
	}

	if cached, ok := c.cache.Get(keyParts); ok {
		// The numeric payload is reusable across differently-labeled
		// invocations of the same physical pair; the naming context is not.
		cached.Label = ws.Name
		cached.TargetRootPath = ws.Path
		cached.ResolvedTargetPath = targetPath
		return cached, nil
	}

	future, err := pool.Submit(models.ComparisonRequest{
		ReferencePath:         ref.path,
		TargetRootPath:        ws.Path,
		TargetRelativePath:    relativePath,
		TargetLabel:           ws.Name,
		WhitespaceInsensitive: ignoreWhitespace,
		ReferenceContent:      ref.content,
		ReferenceLoaded:       true,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.ComparisonResult{}, ctxErr
		}
		runLogger.Warn().Err(err).Str("target", targetPath).Msg("Comparison could not be dispatched, degrading to missing result")
		return models.NewMissingResult(ws.Name, targetPath, ws.Path), nil
	}

	result, err := future.Wait(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.ComparisonResult{}, ctxErr
		}
		runLogger.Warn().Err(err).Str("target", targetPath).Msg("Comparison failed, degrading to missing result")
		return models.NewMissingResult(ws.Name, targetPath, ws.Path), nil
	}

	if result.Exists {
		c.cache.Set(keyParts, result)
	}
	return result, nil
}

// finalize filters the reference itself out of the result list and sorts:
// existing files before missing ones, then ascending total changed lines
// among files that exist. The sort is stable so missing entries keep their
// configuration order.
func (c *Coordinator) finalize(results []models.ComparisonResult, referencePath string) []models.ComparisonResult {
	filtered := make([]models.ComparisonResult, 0, len(results))
	for _, result := range results {
		if common.SamePath(result.ResolvedTargetPath, referencePath) {
			continue
		}
		filtered = append(filtered, result)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Exists != filtered[j].Exists {
			return filtered[i].Exists
		}
		if !filtered[i].Exists {
			return false
		}
		return filtered[i].TotalChangedLines < filtered[j].TotalChangedLines
	})
	return filtered
}
