package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	verification "brightmatter/contexts/campaign-escrow/verification-service"
	"brightmatter/contexts/campaign-escrow/verification-service/domain/entities"
	domainerrors "brightmatter/contexts/campaign-escrow/verification-service/domain/errors"
	verificationhttp "brightmatter/contexts/campaign-escrow/verification-service/transport/http"

	_ "brightmatter/internal/platform/httpserver/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux          *http.ServeMux
	logger       *slog.Logger
	addr         string
	verification verification.Module
}

func New(verificationModule verification.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:          http.NewServeMux(),
		logger:       logger,
		addr:         addr,
		verification: verificationModule,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /campaigns", s.handleCreateCampaign)
	s.mux.HandleFunc("GET /campaigns", s.handleListCampaigns)
	s.mux.HandleFunc("GET /campaigns/{campaign_id}", s.handleGetCampaign)
	s.mux.HandleFunc("POST /campaigns/{campaign_id}/join", s.handleJoinCampaign)
	s.mux.HandleFunc("POST /campaigns/{campaign_id}/submit", s.handleSubmitPost)
	s.mux.HandleFunc("GET /campaigns/{campaign_id}/leaderboard", s.handleLeaderboard)
	s.mux.HandleFunc("POST /campaigns/{campaign_id}/verify", s.handleVerifyCampaign)
	s.mux.HandleFunc("POST /campaigns/{campaign_id}/refund", s.handleRefundCampaign)

	s.mux.HandleFunc("POST /analyze-post", s.handleAnalyzePost)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":     "ok",
		"service":    "brightmatter",
		"settlement": "ledger",
	})
}

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req verificationhttp.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.verification.Handler.CreateCampaignHandler(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.verification.Handler.ListCampaignsHandler(r.Context(), query.Get("brand_id"), query.Get("status"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	resp, err := s.verification.Handler.GetCampaignHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleJoinCampaign(w http.ResponseWriter, r *http.Request) {
	var req verificationhttp.JoinCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.verification.Handler.JoinCampaignHandler(r.Context(), r.PathValue("campaign_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitPost(w http.ResponseWriter, r *http.Request) {
	var req verificationhttp.SubmitPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.verification.Handler.SubmitPostHandler(r.Context(), r.PathValue("campaign_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	resp, err := s.verification.Handler.LeaderboardHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVerifyCampaign(w http.ResponseWriter, r *http.Request) {
	resp, err := s.verification.Handler.VerifyCampaignHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRefundCampaign(w http.ResponseWriter, r *http.Request) {
	var req verificationhttp.RefundCampaignRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
	}
	resp, err := s.verification.Handler.RefundCampaignHandler(r.Context(), r.PathValue("campaign_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnalyzePost(w http.ResponseWriter, r *http.Request) {
	var req verificationhttp.AnalyzePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.verification.Handler.AnalyzePostHandler(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrCampaignNotFound):
		writeError(w, http.StatusNotFound, "campaign_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrReceiptNotFound):
		writeError(w, http.StatusNotFound, "receipt_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidCampaignInput),
		errors.Is(err, domainerrors.ErrInvalidSubmissionInput):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, domainerrors.ErrCampaignNotOpen):
		writeError(w, http.StatusBadRequest, "campaign_not_open", err.Error())
	case errors.Is(err, entities.ErrNoEligibleCreators):
		writeError(w, http.StatusBadRequest, "no_eligible_creators", err.Error())
	case errors.Is(err, domainerrors.ErrNotAParticipant):
		writeError(w, http.StatusForbidden, "not_a_participant", err.Error())
	case errors.Is(err, domainerrors.ErrAlreadyJoined):
		writeError(w, http.StatusConflict, "already_joined", err.Error())
	case errors.Is(err, domainerrors.ErrDuplicateSubmission):
		writeError(w, http.StatusConflict, "duplicate_submission", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidTransition),
		errors.Is(err, domainerrors.ErrAlreadySettled):
		writeError(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, domainerrors.ErrSettlementFailed):
		writeError(w, http.StatusBadGateway, "settlement_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, verificationhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
