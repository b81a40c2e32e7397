package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "brightmatter/contexts/campaign-escrow/verification-service/application"
	"brightmatter/contexts/campaign-escrow/verification-service/domain/entities"
	domainerrors "brightmatter/contexts/campaign-escrow/verification-service/domain/errors"
	"brightmatter/contexts/campaign-escrow/verification-service/ports"
)

type VerifyCampaignCommand struct {
	CampaignID string
}

type VerifyCampaignResult struct {
	CampaignID   string
	Status       entities.CampaignStatus
	Receipt      entities.PayoutReceipt
	HasReceipt   bool
	Flagged      bool
	FraudReasons []string
	Replayed     bool
}

// VerifyCampaignUseCase drives the deadline state machine: it moves a
// pending campaign to verifying, runs the fraud gate and the allocator over
// the eligible set, settles the payout, and flips the campaign to paid in
// one atomic store write. Every failure mode leaves the campaign in
// verifying so a retry can safely re-enter; re-entry on a paid campaign
// replays the stored receipt without a second settlement call.
type VerifyCampaignUseCase struct {
	Campaigns          ports.CampaignRepository
	Submissions        ports.SubmissionRepository
	Receipts           ports.ReceiptRepository
	Settlement         ports.SettlementGateway
	Clock              ports.Clock
	Locks              *CampaignLocks
	SettlementTimeout  time.Duration
	MaxLikesPerComment float64
	Logger             *slog.Logger
}

func (uc VerifyCampaignUseCase) Execute(ctx context.Context, cmd VerifyCampaignCommand) (VerifyCampaignResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	campaignID := strings.TrimSpace(cmd.CampaignID)

	if uc.Locks != nil {
		unlock := uc.Locks.Lock(campaignID)
		defer unlock()
	}

	campaign, err := uc.Campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return VerifyCampaignResult{}, err
	}

	switch campaign.Status {
	case entities.CampaignStatusPaid:
		return uc.replayReceipt(ctx, campaign)
	case entities.CampaignStatusRefunded:
		return VerifyCampaignResult{
			CampaignID: campaign.CampaignID,
			Status:     entities.CampaignStatusRefunded,
			Replayed:   true,
		}, nil
	case entities.CampaignStatusPending:
		if err := uc.Campaigns.TransitionStatus(ctx, campaign.CampaignID, entities.CampaignStatusPending, entities.CampaignStatusVerifying); err != nil {
			return VerifyCampaignResult{}, err
		}
		campaign.Status = entities.CampaignStatusVerifying
	}

	eligible, err := uc.Submissions.GetEligibleSubmissions(ctx, campaign.CampaignID)
	if err != nil {
		return VerifyCampaignResult{}, err
	}

	proofs := make([]entities.ProofMetrics, 0, len(eligible))
	for _, item := range eligible {
		proofs = append(proofs, item.ProofMetrics())
	}
	report := entities.RunFraudChecks(proofs, uc.MaxLikesPerComment)
	if !report.Passed {
		logger.Warn("campaign flagged by fraud gate",
			"event", "campaign_fraud_flagged",
			"module", "campaign-escrow/verification-service",
			"layer", "application",
			"campaign_id", campaign.CampaignID,
			"reasons", report.Reasons,
		)
		return VerifyCampaignResult{
			CampaignID:   campaign.CampaignID,
			Status:       entities.CampaignStatusVerifying,
			Flagged:      true,
			FraudReasons: report.Reasons,
		}, nil
	}

	splits, err := entities.AllocatePayout(eligible, campaign.BudgetFlow)
	if errors.Is(err, entities.ErrNoEligibleCreators) {
		return uc.refundEmpty(ctx, campaign, logger)
	}
	if err != nil {
		// Split-sum mismatch is an internal consistency bug: abort loudly,
		// never auto-correct.
		logger.Error("payout allocation internal error",
			"event", "payout_allocation_failed",
			"module", "campaign-escrow/verification-service",
			"layer", "application",
			"campaign_id", campaign.CampaignID,
			"error", err.Error(),
		)
		return VerifyCampaignResult{}, err
	}

	timeout := uc.SettlementTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	settleCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	txRef, err := uc.Settlement.SubmitPayout(settleCtx, campaign.CampaignID, splits)
	if err != nil {
		logger.Error("settlement payout failed",
			"event", "settlement_payout_failed",
			"module", "campaign-escrow/verification-service",
			"layer", "application",
			"campaign_id", campaign.CampaignID,
			"error", err.Error(),
		)
		return VerifyCampaignResult{}, fmt.Errorf("%w: %v", domainerrors.ErrSettlementFailed, err)
	}

	receipt := entities.PayoutReceipt{
		CampaignID: campaign.CampaignID,
		PayoutTxID: txRef,
		Splits:     splits,
		CreatedAt:  uc.Clock.Now().UTC(),
	}
	if err := uc.Receipts.SaveReceiptAndMarkPaid(ctx, receipt); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadySettled) {
			return uc.replayReceipt(ctx, campaign)
		}
		return VerifyCampaignResult{}, err
	}

	logger.Info("campaign paid",
		"event", "campaign_paid",
		"module", "campaign-escrow/verification-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"payout_tx_id", txRef,
		"split_count", len(splits),
	)
	return VerifyCampaignResult{
		CampaignID: campaign.CampaignID,
		Status:     entities.CampaignStatusPaid,
		Receipt:    receipt,
		HasReceipt: true,
	}, nil
}

func (uc VerifyCampaignUseCase) replayReceipt(ctx context.Context, campaign entities.Campaign) (VerifyCampaignResult, error) {
	receipt, found, err := uc.Receipts.GetPayoutReceipt(ctx, campaign.CampaignID)
	if err != nil {
		return VerifyCampaignResult{}, err
	}
	if !found {
		return VerifyCampaignResult{}, domainerrors.ErrReceiptNotFound
	}
	return VerifyCampaignResult{
		CampaignID: campaign.CampaignID,
		Status:     entities.CampaignStatusPaid,
		Receipt:    receipt,
		HasReceipt: true,
		Replayed:   true,
	}, nil
}

func (uc VerifyCampaignUseCase) refundEmpty(ctx context.Context, campaign entities.Campaign, logger *slog.Logger) (VerifyCampaignResult, error) {
	if err := uc.Campaigns.TransitionStatus(ctx, campaign.CampaignID, entities.CampaignStatusVerifying, entities.CampaignStatusRefunded); err != nil {
		return VerifyCampaignResult{}, err
	}
	logger.Info("campaign refunded",
		"event", "campaign_refunded",
		"module", "campaign-escrow/verification-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"reason", "no eligible creators",
	)
	return VerifyCampaignResult{
		CampaignID: campaign.CampaignID,
		Status:     entities.CampaignStatusRefunded,
	}, entities.ErrNoEligibleCreators
}
