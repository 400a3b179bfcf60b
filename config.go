// Package chessgui is the game-state exploration core behind the chess GUI:
// a depth-bounded fallback search engine and a snapshot-strided move
// timeline, tied together by a match session that owns the commit boundary.
package chessgui

import (
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Config for a match session.
type Config struct {
	// Depth is the search ply budget for engine players.
	Depth int `json:"depth"`
	// SnapshotStride is the ply interval between full state captures in
	// the timeline.
	SnapshotStride int `json:"snapshot_stride"`
	// ThinkTimeout bounds a single engine move. Zero means no limit.
	ThinkTimeout time.Duration `json:"think_timeout"`
}

func DefaultConfig() Config {
	return Config{Depth: 3, SnapshotStride: 8}
}

// Validate reports every problem with the config at once.
func (c Config) Validate() error {
	var errs error
	if c.Depth < 1 {
		errs = multierror.Append(errs, errors.Errorf("depth must be at least 1, got %d", c.Depth))
	}
	if c.SnapshotStride < 1 {
		errs = multierror.Append(errs, errors.Errorf("snapshot stride must be at least 1, got %d", c.SnapshotStride))
	}
	if c.ThinkTimeout < 0 {
		errs = multierror.Append(errs, errors.Errorf("think timeout must not be negative, got %v", c.ThinkTimeout))
	}
	return errs
}
