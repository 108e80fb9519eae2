package ports

import (
	"context"

	"go.trai.ch/fastbuild/internal/core/domain"
	"go.trai.ch/fastbuild/internal/core/future"
)

// IncrementalCompiler produces an updated BuildOutput from the prior
// completed output and the accumulated modified-file set in state.
//
// Implementations must not mutate state; its future follows the same
// success, failure and cancellation semantics as BaselineBuilder's.
//
//go:generate mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type IncrementalCompiler interface {
	Compile(ctx context.Context, label domain.Label, state *domain.BuildState) *future.Future[domain.BuildOutput]
}
