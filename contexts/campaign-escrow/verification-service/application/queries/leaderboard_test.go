package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"brightmatter/contexts/campaign-escrow/verification-service/adapters/memory"
	"brightmatter/contexts/campaign-escrow/verification-service/domain/entities"
	domainerrors "brightmatter/contexts/campaign-escrow/verification-service/domain/errors"
)

func storedSubmission(id, creator, postID string, score float64, flags entities.Flags) entities.Submission {
	return entities.Submission{
		SubmissionID:   id,
		CampaignID:     "camp-1",
		CreatorAddress: creator,
		Platform:       "tiktok",
		PostURL:        "https://tiktok.com/p/" + postID,
		PostID:         postID,
		PostedAt:       time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		ResonanceScore: score,
		UniqueHash:     entities.UniquenessHash("tiktok", postID, "camp-1"),
		Flags:          flags,
	}
}

func TestLeaderboardExcludesFlaggedSubmissions(t *testing.T) {
	store := memory.NewStore([]entities.Campaign{{
		CampaignID:  "camp-1",
		BrandID:     "brand-1",
		Kind:        entities.CampaignKindOpen,
		BudgetFlow:  100,
		WindowStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Deadline:    time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Status:      entities.CampaignStatusPending,
	}})

	for _, item := range []entities.Submission{
		storedSubmission("sub-1", "0xalice", "post-1", 20, entities.Flags{}),
		storedSubmission("sub-2", "0xbob", "post-2", 90, entities.Flags{OutsideWindow: true}),
		storedSubmission("sub-3", "0xcarol", "post-3", 40, entities.Flags{}),
	} {
		if err := store.AddSubmission(context.Background(), item); err != nil {
			t.Fatalf("seed submission failed: %v", err)
		}
	}

	uc := LeaderboardUseCase{Campaigns: store, Submissions: store}
	entries, err := uc.Execute(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries without the flagged creator, got %d", len(entries))
	}
	if entries[0].CreatorAddress != "0xcarol" || entries[1].CreatorAddress != "0xalice" {
		t.Fatalf("expected carol then alice, got %s then %s", entries[0].CreatorAddress, entries[1].CreatorAddress)
	}
}

func TestLeaderboardUnknownCampaign(t *testing.T) {
	uc := LeaderboardUseCase{Campaigns: memory.NewStore(nil), Submissions: memory.NewStore(nil)}
	_, err := uc.Execute(context.Background(), "missing")
	if !errors.Is(err, domainerrors.ErrCampaignNotFound) {
		t.Fatalf("expected campaign not found, got %v", err)
	}
}

type staticMetrics struct {
	postID  string
	metrics entities.Metrics
}

func (s staticMetrics) FetchMetrics(_ context.Context, _ string) (string, entities.Metrics, error) {
	return s.postID, s.metrics, nil
}

func TestAnalyzePostScoresMetrics(t *testing.T) {
	uc := AnalyzePostUseCase{Metrics: staticMetrics{
		postID:  "post-1",
		metrics: entities.Metrics{Views: 10000, Likes: 300, Comments: 60, Shares: 20},
	}}

	result, err := uc.Execute(context.Background(), "https://tiktok.com/p/post-1")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if result.PostID != "post-1" {
		t.Fatalf("expected post-1, got %s", result.PostID)
	}
	if result.Score != 48 {
		t.Fatalf("expected score 48, got %v", result.Score)
	}
}

func TestAnalyzePostRequiresURL(t *testing.T) {
	uc := AnalyzePostUseCase{Metrics: staticMetrics{}}
	_, err := uc.Execute(context.Background(), "   ")
	if !errors.Is(err, domainerrors.ErrInvalidSubmissionInput) {
		t.Fatalf("expected invalid submission input, got %v", err)
	}
}
