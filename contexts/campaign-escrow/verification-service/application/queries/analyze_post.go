package queries

import (
	"context"
	"log/slog"
	"strings"

	application "brightmatter/contexts/campaign-escrow/verification-service/application"
	"brightmatter/contexts/campaign-escrow/verification-service/domain/entities"
	domainerrors "brightmatter/contexts/campaign-escrow/verification-service/domain/errors"
	"brightmatter/contexts/campaign-escrow/verification-service/ports"
)

type AnalyzePostResult struct {
	PostID  string
	Metrics entities.Metrics
	Score   float64
}

// AnalyzePostUseCase previews the resonance score a post would earn. The
// metrics provider is a mock stand-in for real platform APIs.
type AnalyzePostUseCase struct {
	Metrics ports.MetricsProvider
	Logger  *slog.Logger
}

func (uc AnalyzePostUseCase) Execute(ctx context.Context, postURL string) (AnalyzePostResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	url := strings.TrimSpace(postURL)
	if url == "" {
		return AnalyzePostResult{}, domainerrors.ErrInvalidSubmissionInput
	}

	postID, metrics, err := uc.Metrics.FetchMetrics(ctx, url)
	if err != nil {
		return AnalyzePostResult{}, err
	}
	score := entities.ComputeResonance(metrics)

	logger.Debug("post analyzed",
		"event", "post_analyzed",
		"module", "campaign-escrow/verification-service",
		"layer", "application",
		"post_id", postID,
		"score", score,
	)
	return AnalyzePostResult{
		PostID:  postID,
		Metrics: metrics,
		Score:   score,
	}, nil
}
