package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"brightmatter/contexts/campaign-escrow/verification-service/domain/entities"
	domainerrors "brightmatter/contexts/campaign-escrow/verification-service/domain/errors"
	"brightmatter/contexts/campaign-escrow/verification-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateCampaign(ctx context.Context, campaign entities.Campaign) error {
	row := campaignModelFromEntity(campaign)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidCampaignInput
		}
		return err
	}
	return nil
}

func (r *Repository) GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error) {
	var row campaignModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Campaign{}, domainerrors.ErrCampaignNotFound
		}
		return entities.Campaign{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCampaigns(ctx context.Context, filter ports.CampaignFilter) ([]entities.Campaign, error) {
	tx := r.db.WithContext(ctx).Model(&campaignModel{})
	if strings.TrimSpace(filter.BrandID) != "" {
		tx = tx.Where("brand_id = ?", strings.TrimSpace(filter.BrandID))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}

	var rows []campaignModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Campaign, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// TransitionStatus guards the status column: the UPDATE only matches when
// the stored status still equals from, so two racing verifiers cannot both
// apply the same transition.
func (r *Repository) TransitionStatus(ctx context.Context, campaignID string, from, to entities.CampaignStatus) error {
	if !entities.CanTransition(from, to) {
		return domainerrors.ErrInvalidTransition
	}

	result := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Where("campaign_id = ? AND status = ?", strings.TrimSpace(campaignID), string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		current, err := r.GetCampaign(ctx, campaignID)
		if err != nil {
			return err
		}
		if current.Status == entities.CampaignStatusPaid {
			return domainerrors.ErrAlreadySettled
		}
		return domainerrors.ErrInvalidTransition
	}
	return nil
}

func (r *Repository) ListDueForVerification(ctx context.Context, now time.Time, limit int) ([]entities.Campaign, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []campaignModel
	err := r.db.WithContext(ctx).
		Where("status IN ? AND deadline <= ?",
			[]string{string(entities.CampaignStatusPending), string(entities.CampaignStatusVerifying)},
			now.UTC()).
		Order("deadline ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]entities.Campaign, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) AddParticipant(ctx context.Context, participant entities.Participant) error {
	row := participantModelFromEntity(participant)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyJoined
		}
		return err
	}
	return nil
}

func (r *Repository) IsParticipant(ctx context.Context, campaignID, creatorAddress string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&participantModel{}).
		Where("campaign_id = ? AND creator_address = ?", strings.TrimSpace(campaignID), strings.TrimSpace(creatorAddress)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) ListParticipants(ctx context.Context, campaignID string) ([]entities.Participant, error) {
	var rows []participantModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		Order("joined_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]entities.Participant, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) AddSubmission(ctx context.Context, submission entities.Submission) error {
	row := submissionModelFromEntity(submission)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateSubmission
		}
		return err
	}
	return nil
}

func (r *Repository) GetSubmissions(ctx context.Context, campaignID string) ([]entities.Submission, error) {
	var rows []submissionModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		Order("created_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]entities.Submission, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetEligibleSubmissions(ctx context.Context, campaignID string) ([]entities.Submission, error) {
	campaign, err := r.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	submissions, err := r.GetSubmissions(ctx, campaign.CampaignID)
	if err != nil {
		return nil, err
	}
	return entities.FilterEligible(campaign, submissions), nil
}

func (r *Repository) CountSubmissionsByCreator(ctx context.Context, campaignID, creatorAddress string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&submissionModel{}).
		Where("campaign_id = ? AND creator_address = ?", strings.TrimSpace(campaignID), strings.TrimSpace(creatorAddress)).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// SaveReceiptAndMarkPaid runs receipt insert and status flip in one
// transaction. The guarded UPDATE decides the race: zero rows affected
// means someone else already moved the campaign on, and nothing persists.
func (r *Repository) SaveReceiptAndMarkPaid(ctx context.Context, receipt entities.PayoutReceipt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Model(&campaignModel{}).
			Where("campaign_id = ? AND status = ?", strings.TrimSpace(receipt.CampaignID), string(entities.CampaignStatusVerifying)).
			Updates(map[string]any{
				"status":     string(entities.CampaignStatusPaid),
				"updated_at": receipt.CreatedAt.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var row campaignModel
			err := tx.
				Where("campaign_id = ?", strings.TrimSpace(receipt.CampaignID)).
				First(&row).
				Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domainerrors.ErrCampaignNotFound
				}
				return err
			}
			if row.Status == string(entities.CampaignStatusPaid) {
				return domainerrors.ErrAlreadySettled
			}
			return domainerrors.ErrInvalidTransition
		}

		row, err := receiptModelFromEntity(receipt)
		if err != nil {
			return err
		}
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrAlreadySettled
			}
			return err
		}
		return nil
	})
}

func (r *Repository) GetPayoutReceipt(ctx context.Context, campaignID string) (entities.PayoutReceipt, bool, error) {
	var row receiptModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.PayoutReceipt{}, false, nil
		}
		return entities.PayoutReceipt{}, false, err
	}

	receipt, err := row.toEntity()
	if err != nil {
		return entities.PayoutReceipt{}, false, err
	}
	return receipt, true, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
