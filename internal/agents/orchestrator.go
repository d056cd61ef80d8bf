package agents

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ecotrace/ecotrace-server/internal/model"
)

// AggregateResult merges the outputs of one analysis pass. A failed agent
// leaves its section empty and records a marker in SectionErrors keyed by
// the agent ID; successful sections are always preserved.
type AggregateResult struct {
	Insights        []model.Insight        `json:"insights"`
	Recommendations []model.Recommendation `json:"recommendations"`
	ExternalInsight model.ExternalInsight  `json:"externalInsight"`
	SectionErrors   map[string]string      `json:"sectionErrors,omitempty"`
}

// Orchestrator coordinates the analysis agents. The registry is built once
// at construction and never mutated; Analyze keeps no state between calls.
type Orchestrator struct {
	analyzer    Agent
	recommender Agent
	external    Agent
	registry    map[string]Agent
	logger      zerolog.Logger
}

// NewOrchestrator wires the three analysis agents into an orchestrator.
func NewOrchestrator(analyzer, recommender, external Agent, logger zerolog.Logger) *Orchestrator {
	registry := make(map[string]Agent, 3)
	for _, a := range []Agent{analyzer, recommender, external} {
		registry[a.Descriptor().ID] = a
	}
	return &Orchestrator{
		analyzer:    analyzer,
		recommender: recommender,
		external:    external,
		registry:    registry,
		logger:      logger.With().Str("component", "orchestrator").Logger(),
	}
}

// Agent returns the registered agent with the given ID, if any.
func (o *Orchestrator) Agent(id string) (Agent, bool) {
	a, ok := o.registry[id]
	return a, ok
}

// Descriptors lists the capability metadata of every registered agent.
func (o *Orchestrator) Descriptors() []model.AgentDescriptor {
	out := make([]model.AgentDescriptor, 0, len(o.registry))
	for _, id := range []string{"carbon-analysis", "recommendation", "external-insight"} {
		if a, ok := o.registry[id]; ok {
			out = append(out, a.Descriptor())
		}
	}
	return out
}

// Analyze runs one full analysis pass. The recommender runs after the
// analyzer so it can consume its insights; the external insight agent runs
// concurrently with both. A failure in any agent never aborts the others.
func (o *Orchestrator) Analyze(ctx context.Context, in AnalysisContext) AggregateResult {
	res := AggregateResult{
		Insights:        []model.Insight{},
		Recommendations: []model.Recommendation{},
	}

	var mu sync.Mutex
	sectionErr := func(id string, err error) {
		o.logger.Warn().Err(err).Str("agent", id).Msg("agent failed; section degraded")
		mu.Lock()
		defer mu.Unlock()
		if res.SectionErrors == nil {
			res.SectionErrors = make(map[string]string)
		}
		res.SectionErrors[id] = err.Error()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		out, err := o.run(gctx, o.analyzer, in)
		if err != nil {
			sectionErr(o.analyzer.Descriptor().ID, err)
		} else if out.Insights != nil {
			res.Insights = out.Insights
		}

		// The recommender consumes whatever insights the analyzer managed
		// to produce, possibly none.
		recIn := in
		recIn.Insights = out.Insights
		recOut, err := o.run(gctx, o.recommender, recIn)
		if err != nil {
			sectionErr(o.recommender.Descriptor().ID, err)
			return nil
		}
		if recOut.Recommendations != nil {
			res.Recommendations = recOut.Recommendations
		}
		return nil
	})

	g.Go(func() error {
		out, err := o.run(gctx, o.external, in)
		if err != nil {
			sectionErr(o.external.Descriptor().ID, err)
			res.ExternalInsight = model.ExternalInsight{Error: err.Error()}
			return nil
		}
		if out.External != nil {
			res.ExternalInsight = *out.External
		}
		return nil
	})

	_ = g.Wait()
	return res
}

// run executes one agent, converting a panic into that agent's failure so
// a misbehaving agent cannot take down the whole pass.
func (o *Orchestrator) run(ctx context.Context, a Agent, in AnalysisContext) (out Output, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("agent %s panicked: %v", a.Descriptor().ID, r)
		}
	}()
	return a.Execute(ctx, in)
}
