package memory

import (
	"context"
	"sync"
	"time"

	"brightmatter/contexts/campaign-escrow/verification-service/domain/entities"

	"github.com/google/uuid"
)

// Ledger is the in-memory settlement gateway for tests and local runs. It
// mirrors the external ledger's idempotency contract: repeated calls for
// the same campaign replay the recorded transaction reference.
type Ledger struct {
	mu      sync.Mutex
	proofs  map[string]string
	payouts map[string]string
}

func NewLedger() *Ledger {
	return &Ledger{
		proofs:  make(map[string]string),
		payouts: make(map[string]string),
	}
}

func (l *Ledger) SubmitScoreProof(ctx context.Context, campaignID, creatorAddress, postID string, _ float64, _ time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	key := campaignID + "|" + creatorAddress + "|" + postID
	if txRef, exists := l.proofs[key]; exists {
		return txRef, nil
	}
	txRef := uuid.NewString()
	l.proofs[key] = txRef
	return txRef, nil
}

func (l *Ledger) SubmitPayout(ctx context.Context, campaignID string, _ []entities.PayoutSplit) (string, error) {
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
	return txRef, nil
}

// PayoutCount reports how many distinct campaigns have settled, for tests
// asserting at-most-one settlement per campaign.
func (l *Ledger) PayoutCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.payouts)
}
