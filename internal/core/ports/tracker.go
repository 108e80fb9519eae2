package ports

import (
	"context"

	"go.trai.ch/fastbuild/internal/core/domain"
)

// ModifiedFileTracker reports files changed since the tracker's reference
// point (the last commit for VCS-backed trackers, the previous query for
// watch-based trackers).
//
// ModifiedFiles is synchronous and may block while the backing source
// refreshes; the orchestrator calls it inside its per-target critical
// section and accepts that trade-off.
//
//go:generate mockgen -source=tracker.go -destination=mocks/mock_tracker.go -package=mocks
type ModifiedFileTracker interface {
	ModifiedFiles(ctx context.Context) (domain.FileSet, error)
}
