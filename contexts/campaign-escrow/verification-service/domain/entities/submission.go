package entities

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Participant records that a creator joined a campaign. Curated campaigns
// require a participant row before submissions are accepted; open campaigns
// record joins for the audit trail only.
type Participant struct {
	CampaignID     string
	CreatorAddress string
	JoinedAt       time.Time
	IsEligible     bool
}

type Metrics struct {
	Views    int64
	Likes    int64
	Comments int64
	Shares   int64
}

func (m Metrics) NonNegative() bool {
	return m.Views >= 0 && m.Likes >= 0 && m.Comments >= 0 && m.Shares >= 0
}

// EngagementRate is the plain interaction ratio used by the eligibility
// criteria, not the weighted rate used for scoring.
func (m Metrics) EngagementRate() float64 {
	if m.Views <= 0 {
		return 0
	}
	return float64(m.Likes+m.Comments+m.Shares) / float64(m.Views)
}

// Flags mark a stored submission as excluded from payout math. Flagged
// submissions stay in the log so leaderboards and audits can see them.
type Flags struct {
	OutsideWindow   bool
	InvalidPlatform bool
	LowEngagement   bool
	TooManyPosts    bool
}

func (f Flags) Disqualifying() bool {
	return f.OutsideWindow || f.InvalidPlatform || f.LowEngagement || f.TooManyPosts
}

func (f Flags) List() []string {
	var items []string
	if f.OutsideWindow {
		items = append(items, "outsideWindow")
	}
	if f.InvalidPlatform {
		items = append(items, "invalidPlatform")
	}
	if f.LowEngagement {
		items = append(items, "lowEngagement")
	}
	if f.TooManyPosts {
		items = append(items, "tooManyPosts")
	}
	return items
}

// Submission is append-only: once stored it is never mutated, which keeps
// leaderboard and payout computation reproducible from the log alone.
type Submission struct {
	SubmissionID   string
	CampaignID     string
	CreatorAddress string
	Platform       string
	PostURL        string
	PostID         string
	PostedAt       time.Time
	Metrics        Metrics
	ResonanceScore float64
	UniqueHash     string
	Flags          Flags
	CreatedAt      time.Time
}

func (s Submission) ValidateCreate() bool {
	return strings.TrimSpace(s.SubmissionID) != "" &&
		strings.TrimSpace(s.CampaignID) != "" &&
		strings.TrimSpace(s.CreatorAddress) != "" &&
		strings.TrimSpace(s.Platform) != "" &&
		strings.TrimSpace(s.PostURL) != "" &&
		strings.TrimSpace(s.PostID) != "" &&
		!s.PostedAt.IsZero() &&
		s.Metrics.NonNegative()
}

// UniquenessHash is the deterministic duplicate-detection key. Two
// submissions of the same post to the same campaign collide regardless of
// submitter or URL variant.
func UniquenessHash(platform, postID, campaignID string) string {
	payload := strings.ToLower(strings.TrimSpace(platform)) + "|" +
		strings.TrimSpace(postID) + "|" +
		strings.TrimSpace(campaignID)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// FilterEligible is the single place the eligible-set rule lives. Both
// storage adapters delegate here so read paths cannot drift.
func FilterEligible(campaign Campaign, submissions []Submission) []Submission {
	eligible := make([]Submission, 0, len(submissions))
	for _, item := range submissions {
		if item.Flags.Disqualifying() {
			continue
		}
		if !campaign.InWindow(item.PostedAt) {
			continue
		}
		if campaign.Criteria.MinResonanceScore > 0 && item.ResonanceScore < campaign.Criteria.MinResonanceScore {
			continue
		}
		eligible = append(eligible, item)
	}
	return eligible
}
