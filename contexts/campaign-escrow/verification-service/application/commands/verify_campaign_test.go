package commands

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"brightmatter/contexts/campaign-escrow/verification-service/adapters/memory"
	"brightmatter/contexts/campaign-escrow/verification-service/domain/entities"
	domainerrors "brightmatter/contexts/campaign-escrow/verification-service/domain/errors"
	"brightmatter/contexts/campaign-escrow/verification-service/ports"
)

// flakySettlement fails payouts until Recover is called, then delegates to
// the in-memory ledger.
type flakySettlement struct {
	mu     sync.Mutex
	broken bool
	ledger *memory.Ledger
}

func (f *flakySettlement) Recover() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broken = false
}

func (f *flakySettlement) SubmitScoreProof(ctx context.Context, campaignID, creatorAddress, postID string, score float64, postedAt time.Time) (string, error) {
	return f.ledger.SubmitScoreProof(ctx, campaignID, creatorAddress, postID, score, postedAt)
}

func (f *flakySettlement) SubmitPayout(ctx context.Context, campaignID string, splits []entities.PayoutSplit) (string, error) {
	f.mu.Lock()
	broken := f.broken
	f.mu.Unlock()
	if broken {
		return "", errors.New("ledger unavailable")
	}
	return f.ledger.SubmitPayout(ctx, campaignID, splits)
}

func newVerifyUseCase(store *memory.Store, settlement ports.SettlementGateway) VerifyCampaignUseCase {
	return VerifyCampaignUseCase{
		Campaigns:          store,
		Submissions:        store,
		Receipts:           store,
		Settlement:         settlement,
		Clock:              fixedClock{now: testNow},
		Locks:              NewCampaignLocks(),
		MaxLikesPerComment: entities.DefaultMaxLikesPerComment,
	}
}

func seedSubmissions(t *testing.T, store *memory.Store, ledger *memory.Ledger) {
	t.Helper()
	uc := newSubmitUseCase(store, ledger)
	for _, item := range []struct {
		creator string
		postID  string
		metrics entities.Metrics
	}{
		{"0xalice", "post-1", entities.Metrics{Views: 10000, Likes: 200, Comments: 50, Shares: 0}},
		{"0xbob", "post-2", entities.Metrics{Views: 10000, Likes: 500, Comments: 100, Shares: 0}},
	} {
		cmd := submitCommand("camp-1", item.creator, item.postID)
		cmd.Metrics = item.metrics
		if _, err := uc.Execute(context.Background(), cmd); err != nil {
			t.Fatalf("seed submission %s failed: %v", item.postID, err)
		}
	}
}

func TestVerifyCampaignSettlesAndPaysOut(t *testing.T) {
	store := memory.NewStore([]entities.Campaign{testCampaign("camp-1", entities.CampaignKindOpen)})
	ledger := memory.NewLedger()
	seedSubmissions(t, store, ledger)

	uc := newVerifyUseCase(store, ledger)
	result, err := uc.Execute(context.Background(), VerifyCampaignCommand{CampaignID: "camp-1"})
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if result.Status != entities.CampaignStatusPaid || !result.HasReceipt {
		t.Fatalf("expected paid with receipt, got %s hasReceipt=%v", result.Status, result.HasReceipt)
	}
	if len(result.Receipt.Splits) != 2 {
		t.Fatalf("expected 2 splits, got %d", len(result.Receipt.Splits))
	}
	// alice 30 vs bob 70 resonance.
	if result.Receipt.Splits[0].Percent != 0.3 || result.Receipt.Splits[1].Percent != 0.7 {
		t.Fatalf("expected 0.3/0.7 split, got %v/%v", result.Receipt.Splits[0].Percent, result.Receipt.Splits[1].Percent)
	}
	if result.Receipt.Splits[0].AmountFlow != 270 || result.Receipt.Splits[1].AmountFlow != 630 {
		t.Fatalf("expected 270/630 FLOW, got %v/%v", result.Receipt.Splits[0].AmountFlow, result.Receipt.Splits[1].AmountFlow)
	}
}

func TestVerifyCampaignReplaysReceiptWhenPaid(t *testing.T) {
	store := memory.NewStore([]entities.Campaign{testCampaign("camp-1", entities.CampaignKindOpen)})
	ledger := memory.NewLedger()
	seedSubmissions(t, store, ledger)

	uc := newVerifyUseCase(store, ledger)
	first, err := uc.Execute(context.Background(), VerifyCampaignCommand{CampaignID: "camp-1"})
	if err != nil {
		t.Fatalf("first verify failed: %v", err)
	}

	second, err := uc.Execute(context.Background(), VerifyCampaignCommand{CampaignID: "camp-1"})
	if err != nil {
		t.Fatalf("second verify failed: %v", err)
	}
	if !second.Replayed {
		t.Fatalf("expected replayed result")
	}
	if second.Receipt.PayoutTxID != first.Receipt.PayoutTxID {
		t.Fatalf("expected same receipt, got %s and %s", first.Receipt.PayoutTxID, second.Receipt.PayoutTxID)
	}
	if ledger.PayoutCount() != 1 {
		t.Fatalf("expected exactly one settlement, got %d", ledger.PayoutCount())
	}
}

func TestVerifyCampaignRefundsWhenNoEligibleWork(t *testing.T) {
	store := memory.NewStore([]entities.Campaign{testCampaign("camp-1", entities.CampaignKindOpen)})
	ledger := memory.NewLedger()

	uc := newVerifyUseCase(store, ledger)
	result, err := uc.Execute(context.Background(), VerifyCampaignCommand{CampaignID: "camp-1"})
	if !errors.Is(err, entities.ErrNoEligibleCreators) {
		t.Fatalf("expected no eligible creators, got %v", err)
	}
	if result.Status != entities.CampaignStatusRefunded {
		t.Fatalf("expected refunded status, got %s", result.Status)
	}

	campaign, err := store.GetCampaign(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("get campaign failed: %v", err)
	}
	if campaign.Status != entities.CampaignStatusRefunded {
		t.Fatalf("expected stored refunded status, got %s", campaign.Status)
	}
	if ledger.PayoutCount() != 0 {
		t.Fatalf("expected no settlement for a refunded campaign")
	}
}

func TestVerifyCampaignFraudGateBlocksPayout(t *testing.T) {
	store := memory.NewStore([]entities.Campaign{testCampaign("camp-1", entities.CampaignKindOpen)})
	ledger := memory.NewLedger()

	uc := newSubmitUseCase(store, ledger)
	cmd := submitCommand("camp-1", "0xalice", "post-1")
	cmd.Metrics = entities.Metrics{Views: 10000, Likes: 5000, Comments: 10, Shares: 0}
	if _, err := uc.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("seed submission failed: %v", err)
	}

	verify := newVerifyUseCase(store, ledger)
	result, err := verify.Execute(context.Background(), VerifyCampaignCommand{CampaignID: "camp-1"})
	if err != nil {
		t.Fatalf("verify returned error: %v", err)
	}
	if !result.Flagged || len(result.FraudReasons) == 0 {
		t.Fatalf("expected fraud flags, got %+v", result)
	}
	if result.Status != entities.CampaignStatusVerifying {
		t.Fatalf("expected campaign held in verifying, got %s", result.Status)
	}
	if ledger.PayoutCount() != 0 {
		t.Fatalf("expected no settlement for a flagged campaign")
	}
}

func TestVerifyCampaignSettlementFailureIsRetryable(t *testing.T) {
	store := memory.NewStore([]entities.Campaign{testCampaign("camp-1", entities.CampaignKindOpen)})
	ledger := memory.NewLedger()
	seedSubmissions(t, store, ledger)

	settlement := &flakySettlement{broken: true, ledger: ledger}
	uc := newVerifyUseCase(store, settlement)

	_, err := uc.Execute(context.Background(), VerifyCampaignCommand{CampaignID: "camp-1"})
	if !errors.Is(err, domainerrors.ErrSettlementFailed) {
		t.Fatalf("expected settlement failure, got %v", err)
	}
	campaign, err := store.GetCampaign(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("get campaign failed: %v", err)
	}
	if campaign.Status != entities.CampaignStatusVerifying {
		t.Fatalf("expected campaign to stay verifying for retry, got %s", campaign.Status)
	}

	settlement.Recover()
	result, err := uc.Execute(context.Background(), VerifyCampaignCommand{CampaignID: "camp-1"})
	if err != nil {
		t.Fatalf("retry verify failed: %v", err)
	}
	if result.Status != entities.CampaignStatusPaid {
		t.Fatalf("expected retry to pay out, got %s", result.Status)
	}
}

func TestVerifyCampaignConcurrentCallsSettleOnce(t *testing.T) {
	store := memory.NewStore([]entities.Campaign{testCampaign("camp-1", entities.CampaignKindOpen)})
	ledger := memory.NewLedger()
	seedSubmissions(t, store, ledger)

	uc := newVerifyUseCase(store, ledger)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < len(errs); i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, errs[slot] = uc.Execute(context.Background(), VerifyCampaignCommand{CampaignID: "camp-1"})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent verify %d failed: %v", i, err)
		}
	}
	if ledger.PayoutCount() != 1 {
		t.Fatalf("expected exactly one settlement under contention, got %d", ledger.PayoutCount())
	}
}

func TestRefundCampaignFromPending(t *testing.T) {
	store := memory.NewStore([]entities.Campaign{testCampaign("camp-1", entities.CampaignKindOpen)})
	uc := RefundCampaignUseCase{Campaigns: store, Locks: NewCampaignLocks()}

	status, err := uc.Execute(context.Background(), RefundCampaignCommand{CampaignID: "camp-1", Reason: "brand cancelled"})
	if err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	if status != entities.CampaignStatusRefunded {
		t.Fatalf("expected refunded, got %s", status)
	}

	// Refunding again is a no-op.
	status, err = uc.Execute(context.Background(), RefundCampaignCommand{CampaignID: "camp-1"})
	if err != nil || status != entities.CampaignStatusRefunded {
		t.Fatalf("expected idempotent refund, got %s err=%v", status, err)
	}
}

func TestRefundCampaignRejectsPaid(t *testing.T) {
	campaign := testCampaign("camp-1", entities.CampaignKindOpen)
	campaign.Status = entities.CampaignStatusPaid
	store := memory.NewStore([]entities.Campaign{campaign})
	uc := RefundCampaignUseCase{Campaigns: store, Locks: NewCampaignLocks()}

	_, err := uc.Execute(context.Background(), RefundCampaignCommand{CampaignID: "camp-1"})
	if !errors.Is(err, domainerrors.ErrAlreadySettled) {
		t.Fatalf("expected already settled, got %v", err)
	}
}
