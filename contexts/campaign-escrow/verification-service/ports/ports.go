package ports

import (
	"context"
	"time"

	"brightmatter/contexts/campaign-escrow/verification-service/domain/entities"
)

type CampaignFilter struct {
	BrandID string
	Status  entities.CampaignStatus
}

type CampaignRepository interface {
	CreateCampaign(ctx context.Context, campaign entities.Campaign) error
	GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error)
	ListCampaigns(ctx context.Context, filter CampaignFilter) ([]entities.Campaign, error)
	// TransitionStatus applies a guarded forward transition. It fails with
	// ErrInvalidTransition when the stored status no longer matches from,
	// so racing callers observe each other instead of double-applying.
	TransitionStatus(ctx context.Context, campaignID string, from, to entities.CampaignStatus) error
	ListDueForVerification(ctx context.Context, now time.Time, limit int) ([]entities.Campaign, error)
}

type ParticipantRepository interface {
	AddParticipant(ctx context.Context, participant entities.Participant) error
	IsParticipant(ctx context.Context, campaignID, creatorAddress string) (bool, error)
	ListParticipants(ctx context.Context, campaignID string) ([]entities.Participant, error)
}

type SubmissionRepository interface {
	// AddSubmission appends to the campaign's submission log. The uniqueness
	// hash is enforced atomically; a collision yields ErrDuplicateSubmission
	// and leaves the first submission untouched.
	AddSubmission(ctx context.Context, submission entities.Submission) error
	GetSubmissions(ctx context.Context, campaignID string) ([]entities.Submission, error)
	GetEligibleSubmissions(ctx context.Context, campaignID string) ([]entities.Submission, error)
	CountSubmissionsByCreator(ctx context.Context, campaignID, creatorAddress string) (int, error)
}

type ReceiptRepository interface {
	// SaveReceiptAndMarkPaid persists the receipt and flips the campaign from
	// verifying to paid in one atomic step. A campaign already paid yields
	// ErrAlreadySettled; any other status yields ErrInvalidTransition. Either
	// the full receipt lands and the status flips, or nothing is persisted.
	SaveReceiptAndMarkPaid(ctx context.Context, receipt entities.PayoutReceipt) error
	GetPayoutReceipt(ctx context.Context, campaignID string) (entities.PayoutReceipt, bool, error)
}

// SettlementGateway is the narrow interface of the external ledger that
// records proofs and moves funds. Both calls must be idempotent under a
// given campaign id; the gateway derives its idempotency key from it.
type SettlementGateway interface {
	SubmitScoreProof(ctx context.Context, campaignID, creatorAddress, postID string, score float64, postedAt time.Time) (string, error)
	SubmitPayout(ctx context.Context, campaignID string, splits []entities.PayoutSplit) (string, error)
}

// MetricsProvider resolves engagement metrics for a post URL. Real platform
// integrations stay upstream; the runtime adapter is a deterministic mock.
type MetricsProvider interface {
	FetchMetrics(ctx context.Context, postURL string) (string, entities.Metrics, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
