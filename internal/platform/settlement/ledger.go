package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"brightmatter/contexts/campaign-escrow/verification-service/domain/entities"

	"github.com/google/uuid"
)

// Ledger is the settlement gateway adapter used by the runtime processes.
// Current implementation is an in-process ledger while runtime wiring is
// finalized for the external settlement network. Both operations are
// idempotent per campaign, matching the gateway contract.
type Ledger struct {
	mu      sync.Mutex
	proofs  map[string]string
	payouts map[string]string
	logger  *slog.Logger
}

func NewLedger(logger *slog.Logger) *Ledger {
	return &Ledger{
		proofs:  make(map[string]string),
		payouts: make(map[string]string),
		logger:  logger,
	}
}

func (l *Ledger) SubmitScoreProof(ctx context.Context, campaignID, creatorAddress, postID string, score float64, postedAt time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s|%s|%s", campaignID, creatorAddress, postID)

	l.mu.Lock()
	defer l.mu.Unlock()

	if txRef, exists := l.proofs[key]; exists {
		return txRef, nil
	}
	txRef := uuid.NewString()
	l.proofs[key] = txRef

	if l.logger != nil {
		l.logger.Info("score proof recorded",
			"event", "settlement_score_proof",
			"module", "internal/platform/settlement",
			"layer", "platform",
			"campaign_id", campaignID,
			"creator_address", creatorAddress,
			"post_id", postID,
			"score", score,
			"posted_at", postedAt.Format(time.RFC3339),
			"tx_ref", txRef,
		)
	}
	return txRef, nil
}

func (l *Ledger) SubmitPayout(ctx context.Context, campaignID string, splits []entities.PayoutSplit) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if txRef, exists := l.payouts[campaignID]; exists {
		return txRef, nil
	}
	txRef := uuid.NewString()
	l.payouts[campaignID] = txRef

	if l.logger != nil {
		l.logger.Info("payout submitted",
			"event", "settlement_payout",
			"module", "internal/platform/settlement",
			"layer", "platform",
			"campaign_id", campaignID,
			"split_count", len(splits),
			"tx_ref", txRef,
		)
	}
	return txRef, nil
}
