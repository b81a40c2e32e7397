package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"brightmatter/contexts/campaign-escrow/verification-service/application/commands"
	"brightmatter/contexts/campaign-escrow/verification-service/application/queries"
	"brightmatter/contexts/campaign-escrow/verification-service/domain/entities"
	domainerrors "brightmatter/contexts/campaign-escrow/verification-service/domain/errors"
	httptransport "brightmatter/contexts/campaign-escrow/verification-service/transport/http"
)

type Handler struct {
	CreateCampaign commands.CreateCampaignUseCase
	JoinCampaign   commands.JoinCampaignUseCase
	SubmitPost     commands.SubmitPostUseCase
	VerifyCampaign commands.VerifyCampaignUseCase
	RefundCampaign commands.RefundCampaignUseCase
	GetCampaign    queries.GetCampaignUseCase
	ListCampaigns  queries.ListCampaignsUseCase
	Leaderboard    queries.LeaderboardUseCase
	AnalyzePost    queries.AnalyzePostUseCase
	Logger         *slog.Logger
}

func (h Handler) CreateCampaignHandler(ctx context.Context, req httptransport.CreateCampaignRequest) (httptransport.CreateCampaignResponse, error) {
	deadline, err := parseInstant(req.Deadline)
	if err != nil || deadline == nil {
		return httptransport.CreateCampaignResponse{}, domainerrors.ErrInvalidCampaignInput
	}
	windowStart, err := parseInstant(req.WindowStart)
	if err != nil {
		return httptransport.CreateCampaignResponse{}, domainerrors.ErrInvalidCampaignInput
	}

	campaign, err := h.CreateCampaign.Execute(ctx, commands.CreateCampaignCommand{
		BrandID:     req.BrandID,
		Title:       req.Title,
		Kind:        req.Kind,
		BudgetFlow:  req.BudgetFlow,
		WindowStart: windowStart,
		Deadline:    *deadline,
		Criteria: entities.Criteria{
			MinEngagementRate:  req.Criteria.MinEngagementRate,
			PlatformAllowlist:  append([]string(nil), req.Criteria.PlatformAllowlist...),
			MaxPostsPerCreator: req.Criteria.MaxPostsPerCreator,
			MinResonanceScore:  req.Criteria.MinResonanceScore,
		},
	})
	if err != nil {
		return httptransport.CreateCampaignResponse{}, err
	}
	return httptransport.CreateCampaignResponse{CampaignID: campaign.CampaignID}, nil
}

func (h Handler) GetCampaignHandler(ctx context.Context, campaignID string) (httptransport.GetCampaignResponse, error) {
	result, err := h.GetCampaign.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.GetCampaignResponse{}, err
	}
	resp := httptransport.GetCampaignResponse{Campaign: mapCampaign(result.Campaign)}
	if result.HasReceipt {
		receipt := mapReceipt(result.Receipt)
		resp.Receipt = &receipt
	}
	return resp, nil
}

func (h Handler) ListCampaignsHandler(ctx context.Context, brandID, status string) (httptransport.ListCampaignsResponse, error) {
	items, err := h.ListCampaigns.Execute(ctx, brandID, status)
	if err != nil {
		return httptransport.ListCampaignsResponse{}, err
	}
	resp := httptransport.ListCampaignsResponse{Campaigns: make([]httptransport.CampaignPayload, 0, len(items))}
	for _, item := range items {
		resp.Campaigns = append(resp.Campaigns, mapCampaign(item))
	}
	return resp, nil
}

func (h Handler) JoinCampaignHandler(ctx context.Context, campaignID string, req httptransport.JoinCampaignRequest) (httptransport.JoinCampaignResponse, error) {
	participant, err := h.JoinCampaign.Execute(ctx, commands.JoinCampaignCommand{
		CampaignID:     campaignID,
		CreatorAddress: req.CreatorAddress,
	})
	if err != nil {
		return httptransport.JoinCampaignResponse{}, err
	}
	return httptransport.JoinCampaignResponse{
		CampaignID:     participant.CampaignID,
		CreatorAddress: participant.CreatorAddress,
		JoinedAt:       participant.JoinedAt.Format(time.RFC3339),
	}, nil
}

func (h Handler) SubmitPostHandler(ctx context.Context, campaignID string, req httptransport.SubmitPostRequest) (httptransport.SubmitPostResponse, error) {
	postedAt, err := parseInstant(req.Timestamp)
	if err != nil || postedAt == nil {
		return httptransport.SubmitPostResponse{}, domainerrors.ErrInvalidSubmissionInput
	}

	result, err := h.SubmitPost.Execute(ctx, commands.SubmitPostCommand{
		CampaignID:     campaignID,
		CreatorAddress: req.CreatorAddress,
		Platform:       req.Platform,
		PostURL:        req.PostURL,
		PostID:         req.PostID,
		PostedAt:       *postedAt,
		Metrics: entities.Metrics{
			Views:    req.Metrics.Views,
			Likes:    req.Metrics.Likes,
			Comments: req.Metrics.Comments,
			Shares:   req.Metrics.Shares,
		},
	})
	if err != nil {
		return httptransport.SubmitPostResponse{}, err
	}
	return httptransport.SubmitPostResponse{
		SubmissionID:   result.Submission.SubmissionID,
		ResonanceScore: result.Submission.ResonanceScore,
		Flags:          result.Submission.Flags.List(),
		ProofTxRef:     result.ProofTxRef,
	}, nil
}

func (h Handler) LeaderboardHandler(ctx context.Context, campaignID string) (httptransport.LeaderboardResponse, error) {
	entries, err := h.Leaderboard.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.LeaderboardResponse{}, err
	}
	resp := httptransport.LeaderboardResponse{Entries: make([]httptransport.LeaderboardEntryPayload, 0, len(entries))}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, httptransport.LeaderboardEntryPayload{
			CreatorAddress:  entry.CreatorAddress,
			TotalScore:      entry.TotalResonance,
			SubmissionCount: entry.SubmissionCount,
			Percent:         entry.Percent,
		})
	}
	return resp, nil
}

func (h Handler) VerifyCampaignHandler(ctx context.Context, campaignID string) (httptransport.VerifyCampaignResponse, error) {
	result, err := h.VerifyCampaign.Execute(ctx, commands.VerifyCampaignCommand{CampaignID: campaignID})
	if err != nil {
		return httptransport.VerifyCampaignResponse{}, err
	}
	resp := httptransport.VerifyCampaignResponse{
		CampaignID:   result.CampaignID,
		Status:       string(result.Status),
		Flagged:      result.Flagged,
		FraudReasons: result.FraudReasons,
		Replayed:     result.Replayed,
	}
	if result.HasReceipt {
		receipt := mapReceipt(result.Receipt)
		resp.Receipt = &receipt
	}
	return resp, nil
}

func (h Handler) RefundCampaignHandler(ctx context.Context, campaignID string, req httptransport.RefundCampaignRequest) (httptransport.RefundCampaignResponse, error) {
	status, err := h.RefundCampaign.Execute(ctx, commands.RefundCampaignCommand{
		CampaignID: campaignID,
		Reason:     req.Reason,
	})
	if err != nil {
		return httptransport.RefundCampaignResponse{}, err
	}
	return httptransport.RefundCampaignResponse{
		CampaignID: strings.TrimSpace(campaignID),
		Status:     string(status),
	}, nil
}

func (h Handler) AnalyzePostHandler(ctx context.Context, req httptransport.AnalyzePostRequest) (httptransport.AnalyzePostResponse, error) {
	result, err := h.AnalyzePost.Execute(ctx, req.PostURL)
	if err != nil {
		return httptransport.AnalyzePostResponse{}, err
	}
	return httptransport.AnalyzePostResponse{
		PostID: result.PostID,
		Score:  result.Score,
		Metrics: httptransport.MetricsPayload{
			Views:    result.Metrics.Views,
			Likes:    result.Metrics.Likes,
			Comments: result.Metrics.Comments,
			Shares:   result.Metrics.Shares,
		},
	}, nil
}

func mapCampaign(item entities.Campaign) httptransport.CampaignPayload {
	return httptransport.CampaignPayload{
		CampaignID:  item.CampaignID,
		BrandID:     item.BrandID,
		Title:       item.Title,
		Kind:        string(item.Kind),
		BudgetFlow:  item.BudgetFlow,
		WindowStart: item.WindowStart.Format(time.RFC3339),
		Deadline:    item.Deadline.Format(time.RFC3339),
		Criteria: httptransport.CriteriaPayload{
			MinEngagementRate:  item.Criteria.MinEngagementRate,
			PlatformAllowlist:  append([]string(nil), item.Criteria.PlatformAllowlist...),
			MaxPostsPerCreator: item.Criteria.MaxPostsPerCreator,
			MinResonanceScore:  item.Criteria.MinResonanceScore,
		},
		Status:    string(item.Status),
		CreatedAt: item.CreatedAt.Format(time.RFC3339),
		UpdatedAt: item.UpdatedAt.Format(time.RFC3339),
	}
}

func mapReceipt(item entities.PayoutReceipt) httptransport.ReceiptPayload {
	splits := make([]httptransport.SplitPayload, 0, len(item.Splits))
	for _, split := range item.Splits {
		splits = append(splits, httptransport.SplitPayload{
			CreatorAddress: split.CreatorAddress,
			Percent:        split.Percent,
			AmountFlow:     split.AmountFlow,
		})
	}
	return httptransport.ReceiptPayload{
		CampaignID: item.CampaignID,
		PayoutTxID: item.PayoutTxID,
		Splits:     splits,
		CreatedAt:  item.CreatedAt.Format(time.RFC3339),
	}
}

func parseInstant(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	utc := parsed.UTC()
	return &utc, nil
}
