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

type JoinCampaignCommand struct {
	CampaignID     string
	CreatorAddress string
}

type JoinCampaignUseCase struct {
	Campaigns    ports.CampaignRepository
	Participants ports.ParticipantRepository
	Clock        ports.Clock
	Logger       *slog.Logger
}

func (uc JoinCampaignUseCase) Execute(ctx context.Context, cmd JoinCampaignCommand) (entities.Participant, error) {
	logger := application.ResolveLogger(uc.Logger)
	creator := strings.TrimSpace(cmd.CreatorAddress)
	if creator == "" {
		return entities.Participant{}, domainerrors.ErrInvalidCampaignInput
	}

	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(cmd.CampaignID))
	if err != nil {
		return entities.Participant{}, err
	}
	if !campaign.AcceptingSubmissions() {
		return entities.Participant{}, domainerrors.ErrCampaignNotOpen
	}

	participant := entities.Participant{
		CampaignID:     campaign.CampaignID,
		CreatorAddress: creator,
		JoinedAt:       uc.Clock.Now().UTC(),
		IsEligible:     true,
	}
	if err := uc.Participants.AddParticipant(ctx, participant); err != nil {
		return entities.Participant{}, err
	}

	logger.Info("creator joined campaign",
		"event", "campaign_joined",
		"module", "campaign-escrow/verification-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"creator_address", creator,
	)
	return participant, nil
}
