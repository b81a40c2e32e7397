package verificationservice

import (
	"log/slog"
	"time"

	httpadapter "brightmatter/contexts/campaign-escrow/verification-service/adapters/http"
	"brightmatter/contexts/campaign-escrow/verification-service/adapters/memory"
	"brightmatter/contexts/campaign-escrow/verification-service/application/commands"
	"brightmatter/contexts/campaign-escrow/verification-service/application/queries"
	"brightmatter/contexts/campaign-escrow/verification-service/application/workers"
	"brightmatter/contexts/campaign-escrow/verification-service/domain/entities"
	"brightmatter/contexts/campaign-escrow/verification-service/ports"
)

type Module struct {
	Handler          httpadapter.Handler
	DeadlineVerifier workers.DeadlineVerifier
	Store            *memory.Store
	Ledger           *memory.Ledger
}

type Dependencies struct {
	Campaigns          ports.CampaignRepository
	Participants       ports.ParticipantRepository
	Submissions        ports.SubmissionRepository
	Receipts           ports.ReceiptRepository
	Settlement         ports.SettlementGateway
	Metrics            ports.MetricsProvider
	Clock              ports.Clock
	IDGenerator        ports.IDGenerator
	SettlementTimeout  time.Duration
	MaxLikesPerComment float64
	VerifyBatchSize    int
	Logger             *slog.Logger
}

func NewModule(deps Dependencies) Module {
	locks := commands.NewCampaignLocks()

	createCampaign := commands.CreateCampaignUseCase{
		Campaigns: deps.Campaigns,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		Logger:    deps.Logger,
	}
	joinCampaign := commands.JoinCampaignUseCase{
		Campaigns:    deps.Campaigns,
		Participants: deps.Participants,
		Clock:        deps.Clock,
		Logger:       deps.Logger,
	}
	submitPost := commands.SubmitPostUseCase{
		Campaigns:         deps.Campaigns,
		Participants:      deps.Participants,
		Submissions:       deps.Submissions,
		Settlement:        deps.Settlement,
		Clock:             deps.Clock,
		IDGen:             deps.IDGenerator,
		SettlementTimeout: deps.SettlementTimeout,
		Logger:            deps.Logger,
	}
	verifyCampaign := commands.VerifyCampaignUseCase{
		Campaigns:          deps.Campaigns,
		Submissions:        deps.Submissions,
		Receipts:           deps.Receipts,
		Settlement:         deps.Settlement,
		Clock:              deps.Clock,
		Locks:              locks,
		SettlementTimeout:  deps.SettlementTimeout,
		MaxLikesPerComment: deps.MaxLikesPerComment,
		Logger:             deps.Logger,
	}
	refundCampaign := commands.RefundCampaignUseCase{
		Campaigns: deps.Campaigns,
		Locks:     locks,
		Logger:    deps.Logger,
	}

	getCampaign := queries.GetCampaignUseCase{
		Campaigns: deps.Campaigns,
		Receipts:  deps.Receipts,
		Logger:    deps.Logger,
	}
	listCampaigns := queries.ListCampaignsUseCase{
		Campaigns: deps.Campaigns,
		Logger:    deps.Logger,
	}
	leaderboard := queries.LeaderboardUseCase{
		Campaigns:   deps.Campaigns,
		Submissions: deps.Submissions,
		Logger:      deps.Logger,
	}
	analyzePost := queries.AnalyzePostUseCase{
		Metrics: deps.Metrics,
		Logger:  deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateCampaign: createCampaign,
			JoinCampaign:   joinCampaign,
			SubmitPost:     submitPost,
			VerifyCampaign: verifyCampaign,
			RefundCampaign: refundCampaign,
			GetCampaign:    getCampaign,
			ListCampaigns:  listCampaigns,
			Leaderboard:    leaderboard,
			AnalyzePost:    analyzePost,
			Logger:         deps.Logger,
		},
		DeadlineVerifier: workers.DeadlineVerifier{
			Campaigns: deps.Campaigns,
			Verify:    verifyCampaign,
			Clock:     deps.Clock,
			BatchSize: deps.VerifyBatchSize,
			Logger:    deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module against the in-memory store and
// ledger. Tests and local runs use this; production swaps in the postgres
// repository and the real settlement gateway through NewModule.
func NewInMemoryModule(seed []entities.Campaign, metrics ports.MetricsProvider, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	ledger := memory.NewLedger()
	module := NewModule(Dependencies{
		Campaigns:          store,
		Participants:       store,
		Submissions:        store,
		Receipts:           store,
		Settlement:         ledger,
		Metrics:            metrics,
		Clock:              store,
		IDGenerator:        store,
		SettlementTimeout:  5 * time.Second,
		MaxLikesPerComment: entities.DefaultMaxLikesPerComment,
		VerifyBatchSize:    100,
		Logger:             logger,
	})
	module.Store = store
	module.Ledger = ledger
	return module
}
