package entities

import (
	"testing"
	"time"
)

func TestInWindowInclusiveOnBothEnds(t *testing.T) {
	campaign := Campaign{
		WindowStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Deadline:    time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	if !campaign.InWindow(campaign.WindowStart) {
		t.Fatalf("expected window start to be inside the window")
	}
	if !campaign.InWindow(campaign.Deadline) {
		t.Fatalf("expected deadline instant to be inside the window")
	}
	if campaign.InWindow(campaign.Deadline.Add(time.Second)) {
		t.Fatalf("expected instant after deadline to be outside the window")
	}
	if campaign.InWindow(campaign.WindowStart.Add(-time.Second)) {
		t.Fatalf("expected instant before window start to be outside the window")
	}
}

func TestCanTransitionMonotonicLifecycle(t *testing.T) {
	allowed := [][2]CampaignStatus{
		{CampaignStatusPending, CampaignStatusVerifying},
		{CampaignStatusVerifying, CampaignStatusPaid},
		{CampaignStatusVerifying, CampaignStatusRefunded},
	}
	for _, pair := range allowed {
		if !CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s to be allowed", pair[0], pair[1])
		}
	}

	forbidden := [][2]CampaignStatus{
		{CampaignStatusPending, CampaignStatusPaid},
		{CampaignStatusPending, CampaignStatusRefunded},
		{CampaignStatusVerifying, CampaignStatusPending},
		{CampaignStatusPaid, CampaignStatusRefunded},
		{CampaignStatusPaid, CampaignStatusVerifying},
		{CampaignStatusRefunded, CampaignStatusVerifying},
	}
	for _, pair := range forbidden {
		if CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s to be forbidden", pair[0], pair[1])
		}
	}
}

func TestUniquenessHashNormalizesPlatformOnly(t *testing.T) {
	base := UniquenessHash("TikTok", "post-1", "camp-1")
	if base != UniquenessHash("tiktok", "post-1", "camp-1") {
		t.Fatalf("expected platform casing to be normalized")
	}
	if base == UniquenessHash("tiktok", "post-1", "camp-2") {
		t.Fatalf("expected different campaigns to hash differently")
	}
	if base == UniquenessHash("tiktok", "post-2", "camp-1") {
		t.Fatalf("expected different posts to hash differently")
	}
}

func TestFilterEligibleAppliesMinResonance(t *testing.T) {
	campaign := Campaign{
		WindowStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Deadline:    time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Criteria:    Criteria{MinResonanceScore: 10},
	}

	strong := eligibleSubmission("0xalice", 25)
	weak := eligibleSubmission("0xbob", 5)
	flagged := eligibleSubmission("0xcarol", 50)
	flagged.Flags.InvalidPlatform = true

	eligible := FilterEligible(campaign, []Submission{strong, weak, flagged})
	if len(eligible) != 1 || eligible[0].CreatorAddress != "0xalice" {
		t.Fatalf("expected only the strong unflagged submission, got %v", eligible)
	}
}
