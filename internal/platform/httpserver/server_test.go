package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	verification "brightmatter/contexts/campaign-escrow/verification-service"
	verificationhttp "brightmatter/contexts/campaign-escrow/verification-service/transport/http"
	"brightmatter/internal/platform/socialmetrics"
)

func newTestServer() *Server {
	module := verification.NewInMemoryModule(nil, socialmetrics.NewProvider(nil), nil)
	return New(module, nil, ":0")
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request failed: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
			t.Fatalf("decode response failed: %v", err)
		}
	}
	return rec.Code
}

func createTestCampaign(t *testing.T, handler http.Handler) string {
	t.Helper()

	var created verificationhttp.CreateCampaignResponse
	code := doJSON(t, handler, http.MethodPost, "/campaigns", verificationhttp.CreateCampaignRequest{
		BrandID:     "brand-1",
		Title:       "Spring Launch",
		Kind:        "open",
		BudgetFlow:  900,
		WindowStart: time.Now().UTC().Add(-24 * time.Hour).Format(time.RFC3339),
		Deadline:    time.Now().UTC().Add(30 * 24 * time.Hour).Format(time.RFC3339),
	}, &created)
	if code != http.StatusCreated {
		t.Fatalf("create campaign returned %d", code)
	}
	if created.CampaignID == "" {
		t.Fatalf("expected campaign id in response")
	}
	return created.CampaignID
}

func TestCampaignLifecycleOverHTTP(t *testing.T) {
	handler := newTestServer().Handler()
	campaignID := createTestCampaign(t, handler)

	var submitted verificationhttp.SubmitPostResponse
	code := doJSON(t, handler, http.MethodPost, "/campaigns/"+campaignID+"/submit", verificationhttp.SubmitPostRequest{
		CreatorAddress: "0xalice",
		Platform:       "tiktok",
		PostURL:        "https://tiktok.com/p/post-1",
		PostID:         "post-1",
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		Metrics:        verificationhttp.MetricsPayload{Views: 10000, Likes: 300, Comments: 60, Shares: 20},
	}, &submitted)
	if code != http.StatusCreated {
		t.Fatalf("submit returned %d", code)
	}
	if submitted.ResonanceScore != 48 {
		t.Fatalf("expected resonance 48, got %v", submitted.ResonanceScore)
	}
	if len(submitted.Flags) != 0 {
		t.Fatalf("expected clean submission, got flags %v", submitted.Flags)
	}

	var board verificationhttp.LeaderboardResponse
	code = doJSON(t, handler, http.MethodGet, "/campaigns/"+campaignID+"/leaderboard", nil, &board)
	if code != http.StatusOK {
		t.Fatalf("leaderboard returned %d", code)
	}
	if len(board.Entries) != 1 || board.Entries[0].CreatorAddress != "0xalice" {
		t.Fatalf("expected alice on the leaderboard, got %v", board.Entries)
	}

	var verified verificationhttp.VerifyCampaignResponse
	code = doJSON(t, handler, http.MethodPost, "/campaigns/"+campaignID+"/verify", nil, &verified)
	if code != http.StatusOK {
		t.Fatalf("verify returned %d", code)
	}
	if verified.Status != "paid" || verified.Receipt == nil {
		t.Fatalf("expected paid with receipt, got %+v", verified)
	}
	if verified.Receipt.Splits[0].AmountFlow != 900 {
		t.Fatalf("expected full budget to single creator, got %v", verified.Receipt.Splits[0].AmountFlow)
	}

	var replayed verificationhttp.VerifyCampaignResponse
	code = doJSON(t, handler, http.MethodPost, "/campaigns/"+campaignID+"/verify", nil, &replayed)
	if code != http.StatusOK {
		t.Fatalf("verify replay returned %d", code)
	}
	if !replayed.Replayed || replayed.Receipt.PayoutTxID != verified.Receipt.PayoutTxID {
		t.Fatalf("expected replayed receipt, got %+v", replayed)
	}

	var fetched verificationhttp.GetCampaignResponse
	code = doJSON(t, handler, http.MethodGet, "/campaigns/"+campaignID, nil, &fetched)
	if code != http.StatusOK {
		t.Fatalf("get campaign returned %d", code)
	}
	if fetched.Campaign.Status != "paid" || fetched.Receipt == nil {
		t.Fatalf("expected paid campaign with receipt, got %+v", fetched)
	}
}

func TestVerifyWithoutSubmissionsRefundsOverHTTP(t *testing.T) {
	handler := newTestServer().Handler()
	campaignID := createTestCampaign(t, handler)

	req := httptest.NewRequest(http.MethodPost, "/campaigns/"+campaignID+"/verify", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty campaign, got %d", rec.Code)
	}

	var fetched verificationhttp.GetCampaignResponse
	code := doJSON(t, handler, http.MethodGet, "/campaigns/"+campaignID, nil, &fetched)
	if code != http.StatusOK {
		t.Fatalf("get campaign returned %d", code)
	}
	if fetched.Campaign.Status != "refunded" {
		t.Fatalf("expected refunded campaign, got %s", fetched.Campaign.Status)
	}
}

func TestRefundPaidCampaignConflictsOverHTTP(t *testing.T) {
	handler := newTestServer().Handler()
	campaignID := createTestCampaign(t, handler)

	code := doJSON(t, handler, http.MethodPost, "/campaigns/"+campaignID+"/submit", verificationhttp.SubmitPostRequest{
		CreatorAddress: "0xalice",
		Platform:       "tiktok",
		PostURL:        "https://tiktok.com/p/post-1",
		PostID:         "post-1",
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		Metrics:        verificationhttp.MetricsPayload{Views: 10000, Likes: 300, Comments: 60, Shares: 20},
	}, nil)
	if code != http.StatusCreated {
		t.Fatalf("submit returned %d", code)
	}
	if code = doJSON(t, handler, http.MethodPost, "/campaigns/"+campaignID+"/verify", nil, nil); code != http.StatusOK {
		t.Fatalf("verify returned %d", code)
	}

	code = doJSON(t, handler, http.MethodPost, "/campaigns/"+campaignID+"/refund", verificationhttp.RefundCampaignRequest{Reason: "too late"}, nil)
	if code != http.StatusConflict {
		t.Fatalf("expected 409 refunding a paid campaign, got %d", code)
	}
}

func TestDuplicateSubmissionConflictsOverHTTP(t *testing.T) {
	handler := newTestServer().Handler()
	campaignID := createTestCampaign(t, handler)

	body := verificationhttp.SubmitPostRequest{
		CreatorAddress: "0xalice",
		Platform:       "tiktok",
		PostURL:        "https://tiktok.com/p/post-1",
		PostID:         "post-1",
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		Metrics:        verificationhttp.MetricsPayload{Views: 10000, Likes: 300, Comments: 60, Shares: 20},
	}
	if code := doJSON(t, handler, http.MethodPost, "/campaigns/"+campaignID+"/submit", body, nil); code != http.StatusCreated {
		t.Fatalf("first submit returned %d", code)
	}
	body.CreatorAddress = "0xbob"
	if code := doJSON(t, handler, http.MethodPost, "/campaigns/"+campaignID+"/submit", body, nil); code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate post, got %d", code)
	}
}

func TestUnknownCampaignReturns404(t *testing.T) {
	handler := newTestServer().Handler()

	req := httptest.NewRequest(http.MethodGet, "/campaigns/missing", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var payload verificationhttp.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error payload failed: %v", err)
	}
	if payload.Code != "campaign_not_found" {
		t.Fatalf("expected campaign_not_found code, got %s", payload.Code)
	}
}

func TestAnalyzePostIsDeterministicOverHTTP(t *testing.T) {
	handler := newTestServer().Handler()

	var first verificationhttp.AnalyzePostResponse
	var second verificationhttp.AnalyzePostResponse
	body := verificationhttp.AnalyzePostRequest{PostURL: "https://tiktok.com/p/post-1"}
	if code := doJSON(t, handler, http.MethodPost, "/analyze-post", body, &first); code != http.StatusOK {
		t.Fatalf("analyze returned %d", code)
	}
	if code := doJSON(t, handler, http.MethodPost, "/analyze-post", body, &second); code != http.StatusOK {
		t.Fatalf("analyze returned %d", code)
	}
	if first.PostID != second.PostID || first.Score != second.Score {
		t.Fatalf("expected deterministic analysis, got %+v vs %+v", first, second)
	}
	if first.Score < 1 || first.Score > 100 {
		t.Fatalf("expected score in [1,100], got %v", first.Score)
	}
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestServer().Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
