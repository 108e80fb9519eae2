package ports

import (
	"context"

	"go.trai.ch/fastbuild/internal/core/domain"
	"go.trai.ch/fastbuild/internal/core/future"
)

// BaselineBuilder runs a full build of a target plus its synthesized deploy
// sibling and asynchronously produces the baseline BuildOutput.
//
// The returned future fails with domain.ErrBuildFailed on a non-zero exit
// status and with domain.ErrArtifactCount when the build did not produce
// exactly one deploy artifact. Any build-result bookkeeping is released once
// the future completes, regardless of outcome.
//
//go:generate mockgen -source=builder.go -destination=mocks/mock_builder.go -package=mocks
type BaselineBuilder interface {
	Build(ctx context.Context, label domain.Label, params domain.BuildParameters) *future.Future[domain.BuildOutput]
}
