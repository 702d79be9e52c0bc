package handlers

import (
	"context"

	"github.com/randytsao24/nextshuttle/internal/skill"
	"github.com/randytsao24/nextshuttle/internal/transit"
)

// Predictor abstracts the prediction service for testability.
type Predictor interface {
	Predictions(ctx context.Context, kind transit.ProviderKind) (transit.Result, error)
	Closest(ctx context.Context, direction string) (transit.Ranking, error)
}

// SkillRouter abstracts voice request dispatch.
type SkillRouter interface {
	Handle(ctx context.Context, req skill.Request) (skill.Response, error)
}
