package queries

import (
	"context"
	"log/slog"
	"strings"

	application "brightmatter/contexts/campaign-escrow/verification-service/application"
	"brightmatter/contexts/campaign-escrow/verification-service/domain/entities"
	"brightmatter/contexts/campaign-escrow/verification-service/ports"
)

type GetCampaignResult struct {
	Campaign   entities.Campaign
	Receipt    entities.PayoutReceipt
	HasReceipt bool
}

type GetCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Receipts  ports.ReceiptRepository
	Logger    *slog.Logger
}

func (uc GetCampaignUseCase) Execute(ctx context.Context, campaignID string) (GetCampaignResult, error) {
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return GetCampaignResult{}, err
	}
	receipt, found, err := uc.Receipts.GetPayoutReceipt(ctx, campaign.CampaignID)
	if err != nil {
		return GetCampaignResult{}, err
	}
	return GetCampaignResult{
		Campaign:   campaign,
		Receipt:    receipt,
		HasReceipt: found,
	}, nil
}

type ListCampaignsUseCase struct {
	Campaigns ports.CampaignRepository
	Logger    *slog.Logger
}

func (uc ListCampaignsUseCase) Execute(ctx context.Context, brandID, status string) ([]entities.Campaign, error) {
	logger := application.ResolveLogger(uc.Logger)
	items, err := uc.Campaigns.ListCampaigns(ctx, ports.CampaignFilter{
		BrandID: strings.TrimSpace(brandID),
		Status:  entities.CampaignStatus(strings.TrimSpace(status)),
	})
	if err != nil {
		logger.Error("campaign list failed",
			"event", "campaign_list_failed",
			"module", "campaign-escrow/verification-service",
			"layer", "application",
			"error", err.Error(),
		)
		return nil, err
	}
	return items, nil
}
