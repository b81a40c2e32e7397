package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"brightmatter/contexts/campaign-escrow/verification-service/domain/entities"
	domainerrors "brightmatter/contexts/campaign-escrow/verification-service/domain/errors"
	"brightmatter/contexts/campaign-escrow/verification-service/ports"

	"github.com/google/uuid"
)

// Store is the in-memory campaign store used by tests and local runs. All
// mutations happen under one lock, which gives every campaign the serialized
// single-owner semantics the verification flow relies on.
type Store struct {
	mu sync.RWMutex

	campaigns    map[string]entities.Campaign
	participants map[string][]entities.Participant
	submissions  map[string][]entities.Submission
	hashes       map[string]struct{}
	receipts     map[string]entities.PayoutReceipt
}

func NewStore(seed []entities.Campaign) *Store {
	campaigns := make(map[string]entities.Campaign, len(seed))
	for _, item := range seed {
		campaigns[item.CampaignID] = item
	}
	return &Store{
		campaigns:    campaigns,
		participants: make(map[string][]entities.Participant),
		submissions:  make(map[string][]entities.Submission),
		hashes:       make(map[string]struct{}),
		receipts:     make(map[string]entities.PayoutReceipt),
	}
}

func (s *Store) CreateCampaign(_ context.Context, campaign entities.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.campaigns[campaign.CampaignID]; exists {
		return domainerrors.ErrInvalidCampaignInput
	}
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) GetCampaign(_ context.Context, campaignID string) (entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	return item, nil
}

func (s *Store) ListCampaigns(_ context.Context, filter ports.CampaignFilter) ([]entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Campaign, 0, len(s.campaigns))
	for _, campaign := range s.campaigns {
		if filter.BrandID != "" && campaign.BrandID != filter.BrandID {
			continue
		}
		if filter.Status != "" && campaign.Status != filter.Status {
			continue
		}
		items = append(items, campaign)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) TransitionStatus(_ context.Context, campaignID string, from, to entities.CampaignStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return domainerrors.ErrCampaignNotFound
	}
	if campaign.Status != from {
		if campaign.Status == entities.CampaignStatusPaid {
			return domainerrors.ErrAlreadySettled
		}
		return domainerrors.ErrInvalidTransition
	}
	if !entities.CanTransition(from, to) {
		return domainerrors.ErrInvalidTransition
	}
	campaign.Status = to
	campaign.UpdatedAt = time.Now().UTC()
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) ListDueForVerification(_ context.Context, now time.Time, limit int) ([]entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	due := make([]entities.Campaign, 0)
	for _, campaign := range s.campaigns {
		if campaign.Status != entities.CampaignStatusPending && campaign.Status != entities.CampaignStatusVerifying {
			continue
		}
		if campaign.Deadline.After(now) {
			continue
		}
		due = append(due, campaign)
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].Deadline.Before(due[j].Deadline)
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (s *Store) AddParticipant(_ context.Context, participant entities.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.campaigns[participant.CampaignID]; !exists {
		return domainerrors.ErrCampaignNotFound
	}
	for _, item := range s.participants[participant.CampaignID] {
		if item.CreatorAddress == participant.CreatorAddress {
			return domainerrors.ErrAlreadyJoined
		}
	}
	s.participants[participant.CampaignID] = append(s.participants[participant.CampaignID], participant)
	return nil
}

func (s *Store) IsParticipant(_ context.Context, campaignID, creatorAddress string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.participants[strings.TrimSpace(campaignID)] {
		if item.CreatorAddress == strings.TrimSpace(creatorAddress) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListParticipants(_ context.Context, campaignID string) ([]entities.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.participants[strings.TrimSpace(campaignID)]
	return append([]entities.Participant(nil), items...), nil
}

func (s *Store) AddSubmission(_ context.Context, submission entities.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.campaigns[submission.CampaignID]; !exists {
		return domainerrors.ErrCampaignNotFound
	}
	if _, exists := s.hashes[submission.UniqueHash]; exists {
		return domainerrors.ErrDuplicateSubmission
	}
	s.hashes[submission.UniqueHash] = struct{}{}
	s.submissions[submission.CampaignID] = append(s.submissions[submission.CampaignID], submission)
	return nil
}

func (s *Store) GetSubmissions(_ context.Context, campaignID string) ([]entities.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.submissions[strings.TrimSpace(campaignID)]
	return append([]entities.Submission(nil), items...), nil
}

func (s *Store) GetEligibleSubmissions(_ context.Context, campaignID string) ([]entities.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	campaign, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return nil, domainerrors.ErrCampaignNotFound
	}
	return entities.FilterEligible(campaign, s.submissions[campaign.CampaignID]), nil
}

func (s *Store) CountSubmissionsByCreator(_ context.Context, campaignID, creatorAddress string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, item := range s.submissions[strings.TrimSpace(campaignID)] {
		if item.CreatorAddress == strings.TrimSpace(creatorAddress) {
			count++
		}
	}
	return count, nil
}

// SaveReceiptAndMarkPaid holds the store lock across the status check, the
// receipt write, and the status flip, so a racing second verifier fails
// fast on the already-updated status and no partial state is visible.
func (s *Store) SaveReceiptAndMarkPaid(_ context.Context, receipt entities.PayoutReceipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign, exists := s.campaigns[receipt.CampaignID]
	if !exists {
		return domainerrors.ErrCampaignNotFound
	}
	switch campaign.Status {
	case entities.CampaignStatusVerifying:
	case entities.CampaignStatusPaid:
		return domainerrors.ErrAlreadySettled
	default:
		return domainerrors.ErrInvalidTransition
	}

	s.receipts[receipt.CampaignID] = receipt
	campaign.Status = entities.CampaignStatusPaid
	campaign.UpdatedAt = receipt.CreatedAt
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) GetPayoutReceipt(_ context.Context, campaignID string) (entities.PayoutReceipt, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	receipt, exists := s.receipts[strings.TrimSpace(campaignID)]
	return receipt, exists, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
