package entities

import (
	"strings"
	"time"
)

type CampaignKind string
type CampaignStatus string

const (
	CampaignKindOpen    CampaignKind = "open"
	CampaignKindCurated CampaignKind = "curated"

	CampaignStatusPending   CampaignStatus = "pending"
	CampaignStatusVerifying CampaignStatus = "verifying"
	CampaignStatusPaid      CampaignStatus = "paid"
	CampaignStatusRefunded  CampaignStatus = "refunded"
)

// Criteria is the brand-configured eligibility policy for a campaign.
// Zero values mean "not configured" and disable the corresponding check.
type Criteria struct {
	MinEngagementRate  float64
	PlatformAllowlist  []string
	MaxPostsPerCreator int
	MinResonanceScore  float64
}

type Campaign struct {
	CampaignID  string
	BrandID     string
	Title       string
	Kind        CampaignKind
	BudgetFlow  float64
	WindowStart time.Time
	Deadline    time.Time
	Criteria    Criteria
	Status      CampaignStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c Campaign) ValidateCreate(now time.Time) bool {
	return strings.TrimSpace(c.CampaignID) != "" &&
		strings.TrimSpace(c.BrandID) != "" &&
		IsSupportedKind(c.Kind) &&
		c.BudgetFlow > 0 &&
		!c.Deadline.IsZero() &&
		c.Deadline.After(now) &&
		!c.WindowStart.IsZero() &&
		c.WindowStart.Before(c.Deadline) &&
		c.Criteria.MinEngagementRate >= 0 &&
		c.Criteria.MaxPostsPerCreator >= 0 &&
		c.Criteria.MinResonanceScore >= 0
}

// AcceptingSubmissions reports whether new submissions may still be recorded.
// Submissions that arrive while verification is in flight are stored and
// flagged by the window check rather than rejected outright.
func (c Campaign) AcceptingSubmissions() bool {
	return c.Status == CampaignStatusPending || c.Status == CampaignStatusVerifying
}

// InWindow is inclusive on both ends. A post timestamped exactly at the
// deadline still counts.
func (c Campaign) InWindow(ts time.Time) bool {
	return !ts.Before(c.WindowStart) && !ts.After(c.Deadline)
}

// CanTransition encodes the monotonic campaign lifecycle. Backward and
// skip transitions are never allowed; paid and refunded are terminal.
func CanTransition(from, to CampaignStatus) bool {
	switch from {
	case CampaignStatusPending:
		return to == CampaignStatusVerifying
	case CampaignStatusVerifying:
		return to == CampaignStatusPaid || to == CampaignStatusRefunded
	default:
		return false
	}
}

func IsSupportedKind(value CampaignKind) bool {
	switch value {
	case CampaignKindOpen, CampaignKindCurated:
		return true
	default:
		return false
	}
}

func (cr Criteria) PlatformAllowed(platform string) bool {
	if len(cr.PlatformAllowlist) == 0 {
		return true
	}
	needle := strings.ToLower(strings.TrimSpace(platform))
	for _, item := range cr.PlatformAllowlist {
		if strings.ToLower(strings.TrimSpace(item)) == needle {
			return true
		}
	}
	return false
}
