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

type SubmitPostCommand struct {
	CampaignID     string
	CreatorAddress string
	Platform       string
	PostURL        string
	PostID         string
	PostedAt       time.Time
	Metrics        entities.Metrics
}

type SubmitPostResult struct {
	Submission entities.Submission
	ProofTxRef string
}

// SubmitPostUseCase enforces campaign eligibility in a fixed order so the
// first failing check always wins and diagnostics stay deterministic.
// Flags never reject: a flagged submission is stored for the audit trail
// and only excluded from payout math at read time.
type SubmitPostUseCase struct {
	Campaigns         ports.CampaignRepository
	Participants      ports.ParticipantRepository
	Submissions       ports.SubmissionRepository
	Settlement        ports.SettlementGateway
	Clock             ports.Clock
	IDGen             ports.IDGenerator
	SettlementTimeout time.Duration
	Logger            *slog.Logger
}

func (uc SubmitPostUseCase) Execute(ctx context.Context, cmd SubmitPostCommand) (SubmitPostResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(cmd.CampaignID))
	if err != nil {
		return SubmitPostResult{}, err
	}
	if !campaign.AcceptingSubmissions() {
		return SubmitPostResult{}, domainerrors.ErrCampaignNotOpen
	}

	creator := strings.TrimSpace(cmd.CreatorAddress)
	if campaign.Kind == entities.CampaignKindCurated {
		joined, err := uc.Participants.IsParticipant(ctx, campaign.CampaignID, creator)
		if err != nil {
			return SubmitPostResult{}, err
		}
		if !joined {
			return SubmitPostResult{}, domainerrors.ErrNotAParticipant
		}
	}

	flags := entities.Flags{
		OutsideWindow:   !campaign.InWindow(cmd.PostedAt),
		InvalidPlatform: !campaign.Criteria.PlatformAllowed(cmd.Platform),
	}
	if campaign.Criteria.MinEngagementRate > 0 && cmd.Metrics.EngagementRate() < campaign.Criteria.MinEngagementRate {
		flags.LowEngagement = true
	}
	if campaign.Criteria.MaxPostsPerCreator > 0 {
		count, err := uc.Submissions.CountSubmissionsByCreator(ctx, campaign.CampaignID, creator)
		if err != nil {
			return SubmitPostResult{}, err
		}
		if count >= campaign.Criteria.MaxPostsPerCreator {
			flags.TooManyPosts = true
		}
	}

	submissionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return SubmitPostResult{}, err
	}
	submission := entities.Submission{
		SubmissionID:   submissionID,
		CampaignID:     campaign.CampaignID,
		CreatorAddress: creator,
		Platform:       strings.ToLower(strings.TrimSpace(cmd.Platform)),
		PostURL:        strings.TrimSpace(cmd.PostURL),
		PostID:         strings.TrimSpace(cmd.PostID),
		PostedAt:       cmd.PostedAt.UTC(),
		Metrics:        cmd.Metrics,
		// Score is stored even on flagged submissions, for transparency.
		ResonanceScore: entities.ComputeResonance(cmd.Metrics),
		UniqueHash:     entities.UniquenessHash(cmd.Platform, cmd.PostID, campaign.CampaignID),
		Flags:          flags,
		CreatedAt:      uc.Clock.Now().UTC(),
	}
	if !submission.ValidateCreate() {
		return SubmitPostResult{}, domainerrors.ErrInvalidSubmissionInput
	}
	if err := uc.Submissions.AddSubmission(ctx, submission); err != nil {
		return SubmitPostResult{}, err
	}

	logger.Info("submission accepted",
		"event", "submission_accepted",
		"module", "campaign-escrow/verification-service",
		"layer", "application",
		"campaign_id", submission.CampaignID,
		"creator_address", submission.CreatorAddress,
		"submission_id", submission.SubmissionID,
		"resonance_score", submission.ResonanceScore,
		"flags", submission.Flags.List(),
	)

	result := SubmitPostResult{Submission: submission}
	if uc.Settlement != nil && !flags.Disqualifying() {
		result.ProofTxRef = uc.forwardScoreProof(ctx, submission, logger)
	}
	return result, nil
}

// forwardScoreProof records the score on the settlement ledger. The proof is
// advisory; a ledger hiccup must not reject an already stored submission.
func (uc SubmitPostUseCase) forwardScoreProof(ctx context.Context, submission entities.Submission, logger *slog.Logger) string {
	timeout := uc.SettlementTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	proofCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	txRef, err := uc.Settlement.SubmitScoreProof(
		proofCtx,
		submission.CampaignID,
		submission.CreatorAddress,
		submission.PostID,
		submission.ResonanceScore,
		submission.PostedAt,
	)
	if err != nil {
		logger.Warn("score proof forwarding failed",
			"event", "score_proof_failed",
			"module", "campaign-escrow/verification-service",
			"layer", "application",
			"campaign_id", submission.CampaignID,
			"submission_id", submission.SubmissionID,
			"error", err.Error(),
		)
		return ""
	}
	return txRef
}
