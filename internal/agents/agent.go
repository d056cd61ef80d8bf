// Package agents implements the analysis agents and the orchestrator that
// coordinates them into a single failure-isolated analysis pass.
package agents

import (
	"context"
	"time"

	"github.com/ecotrace/ecotrace-server/internal/model"
)

// AnalysisContext is the shared input for one analysis pass. Each pass
// operates on its own copy of the data; agents never mutate it.
type AnalysisContext struct {
	User       *model.User
	Activities []model.Activity
	Question   string

	// Now anchors time-relative analysis (weekly windows) so results are
	// reproducible under test.
	Now time.Time

	// Insights carries the analyzer's output into the recommender; the
	// orchestrator fills it between steps.
	Insights []model.Insight
}

// Output is what an agent contributes to the aggregate result. Agents fill
// only the sections they own.
type Output struct {
	Insights        []model.Insight
	Recommendations []model.Recommendation
	External        *model.ExternalInsight
}

// Agent is one independent analysis step. Implementations are stateless
// across Execute calls and safe for concurrent use.
type Agent interface {
	Descriptor() model.AgentDescriptor
	Execute(ctx context.Context, in AnalysisContext) (Output, error)
}
