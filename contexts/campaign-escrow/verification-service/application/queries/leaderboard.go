package queries

import (
	"context"
	"log/slog"
	"strings"

	"brightmatter/contexts/campaign-escrow/verification-service/domain/entities"
	"brightmatter/contexts/campaign-escrow/verification-service/ports"
)

// LeaderboardUseCase recomputes standings from the submission log on every
// call. Nothing is cached beyond the request; the log is the only source of
// truth.
type LeaderboardUseCase struct {
	Campaigns   ports.CampaignRepository
	Submissions ports.SubmissionRepository
	Logger      *slog.Logger
}

func (uc LeaderboardUseCase) Execute(ctx context.Context, campaignID string) ([]entities.LeaderboardEntry, error) {
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return nil, err
	}
	eligible, err := uc.Submissions.GetEligibleSubmissions(ctx, campaign.CampaignID)
	if err != nil {
		return nil, err
	}
	return entities.BuildLeaderboard(eligible), nil
}
