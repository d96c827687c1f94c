package models

import "path/filepath"

// DiffCounts holds the exact line-difference sizes between two texts. Both
// fields count lines, never characters; identical content yields {0, 0}.
type DiffCounts struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// Total returns the total number of changed lines.
func (c DiffCounts) Total() int {
	return c.Added + c.Removed
}

// Swapped returns the counts as seen from the opposite comparison direction.
func (c DiffCounts) Swapped() DiffCounts {
	return DiffCounts{Added: c.Removed, Removed: c.Added}
}

// ComparisonRequest identifies one pairwise comparison within a run. It is
// built once per target per run and owned exclusively by the task that
// carries it to an executor.
type ComparisonRequest struct {
	ReferencePath         string `json:"reference_path"`
	TargetRootPath        string `json:"target_root_path"`
	TargetRelativePath    string `json:"target_relative_path"`
	TargetLabel           string `json:"target_label"`
	WhitespaceInsensitive bool   `json:"whitespace_insensitive"`

	// ReferenceContent carries preloaded reference content so executors do
	// not re-read the reference per target. ReferenceLoaded distinguishes a
	// preloaded empty file from no preload at all.
	ReferenceContent string `json:"reference_content,omitempty"`
	ReferenceLoaded  bool   `json:"reference_loaded,omitempty"`
}

// TargetPath resolves the absolute path of the comparison target.
func (r ComparisonRequest) TargetPath() string {
	return filepath.Join(r.TargetRootPath, r.TargetRelativePath)
}

// ComparisonResult is the canonical outcome of one comparison. When Exists is
// false the counts are always zero: absence is not a diff.
type ComparisonResult struct {
	Label              string     `json:"label"`
	TotalChangedLines  int        `json:"total_changed_lines"`
	Counts             DiffCounts `json:"counts"`
	ResolvedTargetPath string     `json:"resolved_target_path"`
	Exists             bool       `json:"exists"`
	TargetRootPath     string     `json:"target_root_path"`
}

// NewComparisonResult builds a result for an existing target from computed
// counts.
func NewComparisonResult(label, resolvedPath, rootPath string, counts DiffCounts) ComparisonResult {
	return ComparisonResult{
		Label:              label,
		TotalChangedLines:  counts.Total(),
		Counts:             counts,
		ResolvedTargetPath: resolvedPath,
		Exists:             true,
		TargetRootPath:     rootPath,
	}
}

// NewMissingResult builds the result used when the target file is absent.
func NewMissingResult(label, resolvedPath, rootPath string) ComparisonResult {
	return ComparisonResult{
		Label:              label,
		ResolvedTargetPath: resolvedPath,
		Exists:             false,
		TargetRootPath:     rootPath,
	}
}

// NewIdenticalResult builds the zero-diff result used when the target is the
// reference file itself or its content is unchanged.
func NewIdenticalResult(label, resolvedPath, rootPath string) ComparisonResult {
	return NewComparisonResult(label, resolvedPath, rootPath, DiffCounts{})
}
