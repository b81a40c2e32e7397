package commands

import (
	"context"
	"log/slog"
	"strings"

	application "brightmatter/contexts/campaign-escrow/verification-service/application"
	"brightmatter/contexts/campaign-escrow/verification-service/domain/entities"
	domainerrors "brightmatter/contexts/campaign-escrow/verification-service/domain/errors"
	"brightmatter/contexts/campaign-escrow/verification-service/ports"
)

type RefundCampaignCommand struct {
	CampaignID string
	Reason     string
}

// RefundCampaignUseCase is the manual operator escape hatch for campaigns
// that should expire without payout. Paid campaigns cannot be refunded;
// refunding an already refunded campaign is a no-op.
type RefundCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Locks     *CampaignLocks
	Logger    *slog.Logger
}

func (uc RefundCampaignUseCase) Execute(ctx context.Context, cmd RefundCampaignCommand) (entities.CampaignStatus, error) {
	logger := application.ResolveLogger(uc.Logger)
	campaignID := strings.TrimSpace(cmd.CampaignID)

	if uc.Locks != nil {
		unlock := uc.Locks.Lock(campaignID)
		defer unlock()
	}

	campaign, err := uc.Campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return "", err
	}
	switch campaign.Status {
	case entities.CampaignStatusPaid:
		return "", domainerrors.ErrAlreadySettled
	case entities.CampaignStatusRefunded:
		return entities.CampaignStatusRefunded, nil
	case entities.CampaignStatusPending:
		if err := uc.Campaigns.TransitionStatus(ctx, campaignID, entities.CampaignStatusPending, entities.CampaignStatusVerifying); err != nil {
			return "", err
		}
	}
	if err := uc.Campaigns.TransitionStatus(ctx, campaignID, entities.CampaignStatusVerifying, entities.CampaignStatusRefunded); err != nil {
		return "", err
	}

	logger.Info("campaign refunded",
		"event", "campaign_refunded",
		"module", "campaign-escrow/verification-service",
		"layer", "application",
		"campaign_id", campaignID,
		"reason", strings.TrimSpace(cmd.Reason),
	)
	return entities.CampaignStatusRefunded, nil
}
