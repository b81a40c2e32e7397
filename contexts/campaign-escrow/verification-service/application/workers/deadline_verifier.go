package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	application "brightmatter/contexts/campaign-escrow/verification-service/application"
	"brightmatter/contexts/campaign-escrow/verification-service/application/commands"
	"brightmatter/contexts/campaign-escrow/verification-service/domain/entities"
	domainerrors "brightmatter/contexts/campaign-escrow/verification-service/domain/errors"
	"brightmatter/contexts/campaign-escrow/verification-service/ports"
)

// DeadlineVerifier sweeps pending campaigns that crossed their deadline and
// runs verification for each. A campaign that refunds, gets fraud-flagged,
// or hits a transient settlement failure does not stop the sweep.
type DeadlineVerifier struct {
	Campaigns ports.CampaignRepository
	Verify    commands.VerifyCampaignUseCase
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (j DeadlineVerifier) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(j.Logger)
	now := time.Now().UTC()
	if j.Clock != nil {
		now = j.Clock.Now().UTC()
	}

	limit := j.BatchSize
	if limit <= 0 {
		limit = 100
	}

	due, err := j.Campaigns.ListDueForVerification(ctx, now, limit)
	if err != nil {
		logger.Error("deadline sweep list failed",
			"event", "deadline_sweep_list_failed",
			"module", "campaign-escrow/verification-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	verified := 0
	flagged := 0
	for _, campaign := range due {
		result, err := j.Verify.Execute(ctx, commands.VerifyCampaignCommand{CampaignID: campaign.CampaignID})
		switch {
		case err == nil && result.Flagged:
			// Stays verifying until an operator clears the fraud report;
			// not counted as settled.
			flagged++
			logger.Warn("deadline sweep campaign flagged",
				"event", "deadline_sweep_campaign_flagged",
				"module", "campaign-escrow/verification-service",
				"layer", "worker",
				"campaign_id", campaign.CampaignID,
				"reasons", result.FraudReasons,
			)
		case err == nil:
			verified++
		case errors.Is(err, entities.ErrNoEligibleCreators):
			// Expired without eligible work; the use case already refunded.
			verified++
		case errors.Is(err, domainerrors.ErrSettlementFailed):
			// Transient: the campaign stays verifying, next sweep retries.
			logger.Warn("deadline sweep settlement retryable",
				"event", "deadline_sweep_settlement_retry",
				"module", "campaign-escrow/verification-service",
				"layer", "worker",
				"campaign_id", campaign.CampaignID,
			)
		default:
			logger.Error("deadline sweep verification failed",
				"event", "deadline_sweep_verification_failed",
				"module", "campaign-escrow/verification-service",
				"layer", "worker",
				"campaign_id", campaign.CampaignID,
				"error", err.Error(),
			)
		}
	}

	if len(due) > 0 {
		logger.Info("deadline sweep completed",
			"event", "deadline_sweep_completed",
			"module", "campaign-escrow/verification-service",
			"layer", "worker",
			"due_count", len(due),
			"verified_count", verified,
			"flagged_count", flagged,
		)
	}
	return nil
}
