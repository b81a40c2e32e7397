package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"brightmatter/contexts/campaign-escrow/verification-service/domain/entities"
	domainerrors "brightmatter/contexts/campaign-escrow/verification-service/domain/errors"
)

func seedCampaign(id string, status entities.CampaignStatus) entities.Campaign {
	return entities.Campaign{
		CampaignID:  id,
		BrandID:     "brand-1",
		Title:       "Spring Launch",
		Kind:        entities.CampaignKindOpen,
		BudgetFlow:  500,
		WindowStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Deadline:    time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Status:      status,
		CreatedAt:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestTransitionStatusGuardsOnCurrentStatus(t *testing.T) {
	store := NewStore([]entities.Campaign{seedCampaign("camp-1", entities.CampaignStatusPending)})

	if err := store.TransitionStatus(context.Background(), "camp-1", entities.CampaignStatusPending, entities.CampaignStatusVerifying); err != nil {
		t.Fatalf("pending -> verifying failed: %v", err)
	}

	// The stored status moved on, so the same transition no longer applies.
	err := store.TransitionStatus(context.Background(), "camp-1", entities.CampaignStatusPending, entities.CampaignStatusVerifying)
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition on stale from-status, got %v", err)
	}
}

func TestTransitionStatusRejectsSkips(t *testing.T) {
	store := NewStore([]entities.Campaign{seedCampaign("camp-1", entities.CampaignStatusPending)})

	err := store.TransitionStatus(context.Background(), "camp-1", entities.CampaignStatusPending, entities.CampaignStatusPaid)
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected pending -> paid to be rejected, got %v", err)
	}
}

func TestTransitionStatusOnPaidCampaignReportsSettled(t *testing.T) {
	store := NewStore([]entities.Campaign{seedCampaign("camp-1", entities.CampaignStatusPaid)})

	err := store.TransitionStatus(context.Background(), "camp-1", entities.CampaignStatusVerifying, entities.CampaignStatusRefunded)
	if !errors.Is(err, domainerrors.ErrAlreadySettled) {
		t.Fatalf("expected already settled, got %v", err)
	}
}

func TestAddSubmissionRejectsDuplicateHash(t *testing.T) {
	store := NewStore([]entities.Campaign{seedCampaign("camp-1", entities.CampaignStatusPending)})

	submission := entities.Submission{
		SubmissionID:   "sub-1",
		CampaignID:     "camp-1",
		CreatorAddress: "0xalice",
		Platform:       "tiktok",
		PostURL:        "https://tiktok.com/p/1",
		PostID:         "post-1",
		PostedAt:       time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		UniqueHash:     entities.UniquenessHash("tiktok", "post-1", "camp-1"),
	}
	if err := store.AddSubmission(context.Background(), submission); err != nil {
		t.Fatalf("first submission failed: %v", err)
	}

	duplicate := submission
	duplicate.SubmissionID = "sub-2"
	duplicate.CreatorAddress = "0xbob"
	err := store.AddSubmission(context.Background(), duplicate)
	if !errors.Is(err, domainerrors.ErrDuplicateSubmission) {
		t.Fatalf("expected duplicate submission, got %v", err)
	}

	items, err := store.GetSubmissions(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("get submissions failed: %v", err)
	}
	if len(items) != 1 || items[0].SubmissionID != "sub-1" {
		t.Fatalf("expected first submission to stand alone, got %v", items)
	}
}

func TestSaveReceiptAndMarkPaidIsGuarded(t *testing.T) {
	store := NewStore([]entities.Campaign{seedCampaign("camp-1", entities.CampaignStatusVerifying)})

	receipt := entities.PayoutReceipt{
		CampaignID: "camp-1",
		PayoutTxID: "tx-1",
		Splits:     []entities.PayoutSplit{{CreatorAddress: "0xalice", Percent: 1, AmountFlow: 500}},
		CreatedAt:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := store.SaveReceiptAndMarkPaid(context.Background(), receipt); err != nil {
		t.Fatalf("save receipt failed: %v", err)
	}

	campaign, err := store.GetCampaign(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("get campaign failed: %v", err)
	}
	if campaign.Status != entities.CampaignStatusPaid {
		t.Fatalf("expected paid status, got %s", campaign.Status)
	}

	err = store.SaveReceiptAndMarkPaid(context.Background(), receipt)
	if !errors.Is(err, domainerrors.ErrAlreadySettled) {
		t.Fatalf("expected second save to report settled, got %v", err)
	}

	stored, found, err := store.GetPayoutReceipt(context.Background(), "camp-1")
	if err != nil || !found {
		t.Fatalf("expected stored receipt, found=%v err=%v", found, err)
	}
	if stored.PayoutTxID != "tx-1" {
		t.Fatalf("expected tx-1 receipt, got %s", stored.PayoutTxID)
	}
}

func TestSaveReceiptRequiresVerifyingStatus(t *testing.T) {
	store := NewStore([]entities.Campaign{seedCampaign("camp-1", entities.CampaignStatusPending)})

	err := store.SaveReceiptAndMarkPaid(context.Background(), entities.PayoutReceipt{CampaignID: "camp-1", PayoutTxID: "tx-1"})
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition from pending, got %v", err)
	}
}

func TestListDueForVerificationFiltersAndSorts(t *testing.T) {
	early := seedCampaign("camp-early", entities.CampaignStatusPending)
	early.Deadline = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	late := seedCampaign("camp-late", entities.CampaignStatusVerifying)
	late.Deadline = time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	future := seedCampaign("camp-future", entities.CampaignStatusPending)
	future.Deadline = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	settled := seedCampaign("camp-paid", entities.CampaignStatusPaid)
	settled.Deadline = time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	store := NewStore([]entities.Campaign{late, future, settled, early})

	due, err := store.ListDueForVerification(context.Background(), time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), 10)
	if err != nil {
		t.Fatalf("list due failed: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 due campaigns, got %d", len(due))
	}
	if due[0].CampaignID != "camp-early" || due[1].CampaignID != "camp-late" {
		t.Fatalf("expected deadline order early then late, got %s then %s", due[0].CampaignID, due[1].CampaignID)
	}
}
