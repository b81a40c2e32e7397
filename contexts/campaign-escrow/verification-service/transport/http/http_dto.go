package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CriteriaPayload struct {
	MinEngagementRate  float64  `json:"min_engagement_rate"`
	PlatformAllowlist  []string `json:"platform_allowlist"`
	MaxPostsPerCreator int      `json:"max_posts_per_creator"`
	MinResonanceScore  float64  `json:"min_resonance_score"`
}

type CreateCampaignRequest struct {
	BrandID     string          `json:"brand_id"`
	Title       string          `json:"title"`
	Kind        string          `json:"kind"`
	BudgetFlow  float64         `json:"budget_flow"`
	WindowStart string          `json:"window_start"`
	Deadline    string          `json:"deadline"`
	Criteria    CriteriaPayload `json:"criteria"`
}

type CreateCampaignResponse struct {
	CampaignID string `json:"campaign_id"`
}

type CampaignPayload struct {
	CampaignID  string          `json:"campaign_id"`
	BrandID     string          `json:"brand_id"`
	Title       string          `json:"title"`
	Kind        string          `json:"kind"`
	BudgetFlow  float64         `json:"budget_flow"`
	WindowStart string          `json:"window_start"`
	Deadline    string          `json:"deadline"`
	Criteria    CriteriaPayload `json:"criteria"`
	Status      string          `json:"status"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

type ListCampaignsResponse struct {
	Campaigns []CampaignPayload `json:"campaigns"`
}

type GetCampaignResponse struct {
	Campaign CampaignPayload `json:"campaign"`
	Receipt  *ReceiptPayload `json:"receipt,omitempty"`
}

type JoinCampaignRequest struct {
	CreatorAddress string `json:"creator_address"`
}

type JoinCampaignResponse struct {
	CampaignID     string `json:"campaign_id"`
	CreatorAddress string `json:"creator_address"`
	JoinedAt       string `json:"joined_at"`
}

type MetricsPayload struct {
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Shares   int64 `json:"shares"`
}

type SubmitPostRequest struct {
	CreatorAddress string         `json:"creator_address"`
	Platform       string         `json:"platform"`
	PostURL        string         `json:"post_url"`
	PostID         string         `json:"post_id"`
	Timestamp      string         `json:"timestamp"`
	Metrics        MetricsPayload `json:"metrics"`
}

type SubmitPostResponse struct {
	SubmissionID   string   `json:"submission_id"`
	ResonanceScore float64  `json:"resonance_score"`
	Flags          []string `json:"flags"`
	ProofTxRef     string   `json:"proof_tx_ref,omitempty"`
}

type LeaderboardEntryPayload struct {
	CreatorAddress  string  `json:"creator_address"`
	TotalScore      float64 `json:"total_score"`
	SubmissionCount int     `json:"submission_count"`
	Percent         float64 `json:"percent"`
}

type LeaderboardResponse struct {
	Entries []LeaderboardEntryPayload `json:"entries"`
}

type SplitPayload struct {
	CreatorAddress string  `json:"creator_address"`
	Percent        float64 `json:"percent"`
	AmountFlow     float64 `json:"amount_flow"`
}

type ReceiptPayload struct {
	CampaignID string         `json:"campaign_id"`
	PayoutTxID string         `json:"payout_tx_id"`
	Splits     []SplitPayload `json:"splits"`
	CreatedAt  string         `json:"created_at"`
}

type VerifyCampaignResponse struct {
	CampaignID   string          `json:"campaign_id"`
	Status       string          `json:"status"`
	Receipt      *ReceiptPayload `json:"receipt,omitempty"`
	Flagged      bool            `json:"flagged,omitempty"`
	FraudReasons []string        `json:"fraud_reasons,omitempty"`
	Replayed     bool            `json:"replayed,omitempty"`
}

type RefundCampaignRequest struct {
	Reason string `json:"reason"`
}

type RefundCampaignResponse struct {
	CampaignID string `json:"campaign_id"`
	Status     string `json:"status"`
}

type AnalyzePostRequest struct {
	PostURL string `json:"post_url"`
}

type AnalyzePostResponse struct {
	PostID  string         `json:"post_id"`
	Score   float64        `json:"score"`
	Metrics MetricsPayload `json:"metrics"`
}
