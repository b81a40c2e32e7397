package postgresadapter

import (
	"encoding/json"
	"strings"
	"time"

	"brightmatter/contexts/campaign-escrow/verification-service/domain/entities"
)

type campaignModel struct {
	CampaignID         string    `gorm:"column:campaign_id;primaryKey"`
	BrandID            string    `gorm:"column:brand_id"`
	Title              string    `gorm:"column:title"`
	Kind               string    `gorm:"column:kind"`
	BudgetFlow         float64   `gorm:"column:budget_flow"`
	WindowStart        time.Time `gorm:"column:window_start"`
	Deadline           time.Time `gorm:"column:deadline"`
	MinEngagementRate  float64   `gorm:"column:min_engagement_rate"`
	PlatformAllowlist  string    `gorm:"column:platform_allowlist"`
	MaxPostsPerCreator int       `gorm:"column:max_posts_per_creator"`
	MinResonanceScore  float64   `gorm:"column:min_resonance_score"`
	Status             string    `gorm:"column:status"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (campaignModel) TableName() string {
	return "campaigns"
}

func campaignModelFromEntity(item entities.Campaign) campaignModel {
	return campaignModel{
		CampaignID:         strings.TrimSpace(item.CampaignID),
		BrandID:            strings.TrimSpace(item.BrandID),
		Title:              strings.TrimSpace(item.Title),
		Kind:               string(item.Kind),
		BudgetFlow:         item.BudgetFlow,
		WindowStart:        item.WindowStart.UTC(),
		Deadline:           item.Deadline.UTC(),
		MinEngagementRate:  item.Criteria.MinEngagementRate,
		PlatformAllowlist:  strings.Join(item.Criteria.PlatformAllowlist, ","),
		MaxPostsPerCreator: item.Criteria.MaxPostsPerCreator,
		MinResonanceScore:  item.Criteria.MinResonanceScore,
		Status:             string(item.Status),
		CreatedAt:          item.CreatedAt.UTC(),
		UpdatedAt:          item.UpdatedAt.UTC(),
	}
}

func (m campaignModel) toEntity() entities.Campaign {
	var allowlist []string
	for _, value := range strings.Split(m.PlatformAllowlist, ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			allowlist = append(allowlist, value)
		}
	}
	return entities.Campaign{
		CampaignID:  m.CampaignID,
		BrandID:     m.BrandID,
		Title:       m.Title,
		Kind:        entities.CampaignKind(m.Kind),
		BudgetFlow:  m.BudgetFlow,
		WindowStart: m.WindowStart.UTC(),
		Deadline:    m.Deadline.UTC(),
		Criteria: entities.Criteria{
			MinEngagementRate:  m.MinEngagementRate,
			PlatformAllowlist:  allowlist,
			MaxPostsPerCreator: m.MaxPostsPerCreator,
			MinResonanceScore:  m.MinResonanceScore,
		},
		Status:    entities.CampaignStatus(m.Status),
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

type participantModel struct {
	CampaignID     string    `gorm:"column:campaign_id;primaryKey"`
	CreatorAddress string    `gorm:"column:creator_address;primaryKey"`
	JoinedAt       time.Time `gorm:"column:joined_at"`
	IsEligible     bool      `gorm:"column:is_eligible"`
}

func (participantModel) TableName() string {
	return "campaign_participants"
}

func participantModelFromEntity(item entities.Participant) participantModel {
	return participantModel{
		CampaignID:     strings.TrimSpace(item.CampaignID),
		CreatorAddress: strings.TrimSpace(item.CreatorAddress),
		JoinedAt:       item.JoinedAt.UTC(),
		IsEligible:     item.IsEligible,
	}
}

func (m participantModel) toEntity() entities.Participant {
	return entities.Participant{
		CampaignID:     m.CampaignID,
		CreatorAddress: m.CreatorAddress,
		JoinedAt:       m.JoinedAt.UTC(),
		IsEligible:     m.IsEligible,
	}
}

type submissionModel struct {
	SubmissionID    string    `gorm:"column:submission_id;primaryKey"`
	CampaignID      string    `gorm:"column:campaign_id;index"`
	CreatorAddress  string    `gorm:"column:creator_address"`
	Platform        string    `gorm:"column:platform"`
	PostURL         string    `gorm:"column:post_url"`
	PostID          string    `gorm:"column:post_id"`
	PostedAt        time.Time `gorm:"column:posted_at"`
	Views           int64     `gorm:"column:views"`
	Likes           int64     `gorm:"column:likes"`
	Comments        int64     `gorm:"column:comments"`
	Shares          int64     `gorm:"column:shares"`
	ResonanceScore  float64   `gorm:"column:resonance_score"`
	UniqueHash      string    `gorm:"column:unique_hash;uniqueIndex"`
	FlagOutside     bool      `gorm:"column:flag_outside_window"`
	FlagPlatform    bool      `gorm:"column:flag_invalid_platform"`
	FlagEngagement  bool      `gorm:"column:flag_low_engagement"`
	FlagTooMany     bool      `gorm:"column:flag_too_many_posts"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (submissionModel) TableName() string {
	return "campaign_submissions"
}

func submissionModelFromEntity(item entities.Submission) submissionModel {
	return submissionModel{
		SubmissionID:   strings.TrimSpace(item.SubmissionID),
		CampaignID:     strings.TrimSpace(item.CampaignID),
		CreatorAddress: strings.TrimSpace(item.CreatorAddress),
		Platform:       strings.TrimSpace(item.Platform),
		PostURL:        strings.TrimSpace(item.PostURL),
		PostID:         strings.TrimSpace(item.PostID),
		PostedAt:       item.PostedAt.UTC(),
		Views:          item.Metrics.Views,
		Likes:          item.Metrics.Likes,
		Comments:       item.Metrics.Comments,
		Shares:         item.Metrics.Shares,
		ResonanceScore: item.ResonanceScore,
		UniqueHash:     item.UniqueHash,
		FlagOutside:    item.Flags.OutsideWindow,
		FlagPlatform:   item.Flags.InvalidPlatform,
		FlagEngagement: item.Flags.LowEngagement,
		FlagTooMany:    item.Flags.TooManyPosts,
		CreatedAt:      item.CreatedAt.UTC(),
	}
}

func (m submissionModel) toEntity() entities.Submission {
	return entities.Submission{
		SubmissionID:   m.SubmissionID,
		CampaignID:     m.CampaignID,
		CreatorAddress: m.CreatorAddress,
		Platform:       m.Platform,
		PostURL:        m.PostURL,
		PostID:         m.PostID,
		PostedAt:       m.PostedAt.UTC(),
		Metrics: entities.Metrics{
			Views:    m.Views,
			Likes:    m.Likes,
			Comments: m.Comments,
			Shares:   m.Shares,
		},
		ResonanceScore: m.ResonanceScore,
		UniqueHash:     m.UniqueHash,
		Flags: entities.Flags{
			OutsideWindow:   m.FlagOutside,
			InvalidPlatform: m.FlagPlatform,
			LowEngagement:   m.FlagEngagement,
			TooManyPosts:    m.FlagTooMany,
		},
		CreatedAt: m.CreatedAt.UTC(),
	}
}

type receiptModel struct {
	CampaignID string    `gorm:"column:campaign_id;primaryKey"`
	PayoutTxID string    `gorm:"column:payout_tx_id"`
	Splits     []byte    `gorm:"column:splits"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (receiptModel) TableName() string {
	return "payout_receipts"
}

type splitRecord struct {
	CreatorAddress string  `json:"creator_address"`
	Percent        float64 `json:"percent"`
	AmountFlow     float64 `json:"amount_flow"`
}

func receiptModelFromEntity(item entities.PayoutReceipt) (receiptModel, error) {
	records := make([]splitRecord, 0, len(item.Splits))
	for _, split := range item.Splits {
		records = append(records, splitRecord{
			CreatorAddress: split.CreatorAddress,
			Percent:        split.Percent,
			AmountFlow:     split.AmountFlow,
		})
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return receiptModel{}, err
	}
	return receiptModel{
		CampaignID: strings.TrimSpace(item.CampaignID),
		PayoutTxID: strings.TrimSpace(item.PayoutTxID),
		Splits:     payload,
		CreatedAt:  item.CreatedAt.UTC(),
	}, nil
}

func (m receiptModel) toEntity() (entities.PayoutReceipt, error) {
	var records []splitRecord
	if len(m.Splits) > 0 {
		if err := json.Unmarshal(m.Splits, &records); err != nil {
			return entities.PayoutReceipt{}, err
		}
	}
	splits := make([]entities.PayoutSplit, 0, len(records))
	for _, record := range records {
		splits = append(splits, entities.PayoutSplit{
			CreatorAddress: record.CreatorAddress,
			Percent:        record.Percent,
			AmountFlow:     record.AmountFlow,
		})
	}
	return entities.PayoutReceipt{
		CampaignID: m.CampaignID,
		PayoutTxID: m.PayoutTxID,
		Splits:     splits,
		CreatedAt:  m.CreatedAt.UTC(),
	}, nil
}
