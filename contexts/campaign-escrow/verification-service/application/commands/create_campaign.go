package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "brightmatter/contexts/campaign-escrow/verification-service/application"
	"brightmatter/contexts/campaign-escrow/verification-service/domain/entities"
	domainerrors "brightmatter/contexts/campaign-escrow/verification-service/domain/errors"
	"brightmatter/contexts/campaign-escrow/verification-service/ports"
)

type CreateCampaignCommand struct {
	BrandID     string
	Title       string
	Kind        string
	BudgetFlow  float64
	WindowStart *time.Time
	Deadline    time.Time
	Criteria    entities.Criteria
}

type CreateCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc CreateCampaignUseCase) Execute(ctx context.Context, cmd CreateCampaignCommand) (entities.Campaign, error) {
	logger := application.ResolveLogger(uc.Logger)
	campaignID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Campaign{}, err
	}

	now := uc.Clock.Now().UTC()
	windowStart := now
	if cmd.WindowStart != nil {
		windowStart = cmd.WindowStart.UTC()
	}
	campaign := entities.Campaign{
		CampaignID:  campaignID,
		BrandID:     strings.TrimSpace(cmd.BrandID),
		Title:       strings.TrimSpace(cmd.Title),
		Kind:        entities.CampaignKind(strings.TrimSpace(cmd.Kind)),
		BudgetFlow:  entities.RoundFix8(cmd.BudgetFlow),
		WindowStart: windowStart,
		Deadline:    cmd.Deadline.UTC(),
		Criteria:    cmd.Criteria,
		Status:      entities.CampaignStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !campaign.ValidateCreate(now) {
		return entities.Campaign{}, domainerrors.ErrInvalidCampaignInput
	}
	if err := uc.Campaigns.CreateCampaign(ctx, campaign); err != nil {
		return entities.Campaign{}, err
	}

	logger.Info("campaign created",
		"event", "campaign_created",
		"module", "campaign-escrow/verification-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"brand_id", campaign.BrandID,
		"kind", string(campaign.Kind),
		"budget_flow", campaign.BudgetFlow,
		"deadline", campaign.Deadline,
	)
	return campaign, nil
}
