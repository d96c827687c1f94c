package executor

import (
	"context"
	"errors"
	"io/fs"

	"github.com/rs/zerolog"

	"github.com/vuon9/workdiff/internal/common"
	"github.com/vuon9/workdiff/internal/differ"
	"github.com/vuon9/workdiff/internal/models"
)

// TaskFunc is the body an executor runs for each task.
type TaskFunc func(ctx context.Context, req models.ComparisonRequest) (models.ComparisonResult, error)

// Comparator is the production task body: it loads the two files from disk
// and invokes the diff engine. A target that is absent (or disappears
// between stat and read) becomes an exists=false result, never an error.
type Comparator struct {
	engine *differ.Engine
	reader *common.FileReader
	logger zerolog.Logger
}

// NewComparator creates a comparator. maxFileSize bounds the bytes read per
// file; zero means unbounded.
func NewComparator(maxFileSize int64, logger zerolog.Logger) *Comparator {
	componentLogger := logger.With().Str("component", "Comparator").Logger()
	return &Comparator{
		engine: differ.NewEngine(),
		reader: common.NewFileReader(maxFileSize, componentLogger),
		logger: componentLogger,
	}
}

// Compare executes one ComparisonRequest. Requests normally arrive with the
// reference content preloaded by whoever coordinates the run; a request
// without it makes the comparator read the reference itself, so it also
// works standalone.
func (c *Comparator) Compare(ctx context.Context, req models.ComparisonRequest) (models.ComparisonResult, error) {
	targetPath := req.TargetPath()

	referenceContent := req.ReferenceContent
	if !req.ReferenceLoaded {
		data, err := c.reader.ReadFile(ctx, req.ReferencePath)
		if err != nil {
			return models.ComparisonResult{}, common.WrapError(err, "failed to read reference file")
		}
		referenceContent = string(data)
	}

	targetData, err := c.reader.ReadFile(ctx, targetPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.NewMissingResult(req.TargetLabel, targetPath, req.TargetRootPath), nil
		}
		return models.ComparisonResult{}, common.WrapError(err, "failed to read target file")
	}

	counts, err := c.engine.ComputeCounts(referenceContent, string(targetData), req.WhitespaceInsensitive)
	if err != nil {
		return models.ComparisonResult{}, common.WrapError(err, "diff computation failed")
	}

	return models.NewComparisonResult(req.TargetLabel, targetPath, req.TargetRootPath, counts), nil
}
