package config

import (
	"errors"

	"github.com/vuon9/workdiff/internal/common"
)

// ErrNoMatchingGroup is returned when no configured group contains the
// reference file.
var ErrNoMatchingGroup = errors.New("no matching comparison group")

// WorkspaceConfig names one root directory whose corresponding file is
// compared against the reference.
type WorkspaceConfig struct {
	Name string `json:"name" yaml:"name" validate:"required"`
	Path string `json:"path" yaml:"path" validate:"required"`
}

// GroupConfig defines one ordered set of workspaces that are compared
// against each other.
type GroupConfig struct {
	Name             string            `json:"name" yaml:"name" validate:"required"`
	IgnoreWhitespace bool              `json:"ignore_whitespace,omitempty" yaml:"ignore_whitespace,omitempty"`
	Workspaces       []WorkspaceConfig `json:"workspaces" yaml:"workspaces" validate:"min=2,dive"`
}

// ResolvedGroup is the result of matching a reference file against the
// configured groups.
type ResolvedGroup struct {
	// Group is the matched group.
	Group GroupConfig
	// Project is the workspace inside Group that contains the reference
	// file.
	Project WorkspaceConfig
	// RelativePath is the reference path expressed relative to Project's
	// root; joining it onto another workspace root yields that workspace's
	// comparison target.
	RelativePath string
}

// ResolveGroup picks the group that applies to referencePath. Groups are
// consulted in configuration order and the first group containing a
// workspace whose path is a prefix of the reference wins; within a group the
// longest matching workspace path is chosen. A non-empty explicitName
// restricts the search to that group.
func ResolveGroup(groups []GroupConfig, referencePath, explicitName string) (*ResolvedGroup, error) {
	candidates := groups
	if explicitName != "" {
		candidates = nil
		for _, g := range groups {
			if g.Name == explicitName {
				candidates = []GroupConfig{g}
				break
			}
		}
		if candidates == nil {
			return nil, common.NewError("comparison group %q is not configured", explicitName)
		}
	}

	for _, group := range candidates {
		project, ok := matchWorkspace(group.Workspaces, referencePath)
		if !ok {
			continue
		}
		rel, err := common.RelativeTo(referencePath, project.Path)
		if err != nil {
			return nil, common.WrapError(err, "failed to resolve reference path inside workspace")
		}
		return &ResolvedGroup{
			Group:        group,
			Project:      project,
			RelativePath: rel,
		}, nil
	}
	return nil, ErrNoMatchingGroup
}

// matchWorkspace returns the workspace with the longest path that is a
// prefix of referencePath.
func matchWorkspace(workspaces []WorkspaceConfig, referencePath string) (WorkspaceConfig, bool) {
	var best WorkspaceConfig
	bestLen := -1
	for _, ws := range workspaces {
		if !common.HasPathPrefix(referencePath, ws.Path) {
			continue
		}
		if len(common.NormalizePath(ws.Path)) > bestLen {
			best = ws
			bestLen = len(common.NormalizePath(ws.Path))
		}
	}
	return best, bestLen >= 0
}
