package repository

import (
	"context"

	"arena-clash/models"

	"gorm.io/gorm"
)

// TransactionRepo owns the append-only ledger. There is no Update or Delete:
// corrections are separate adjustment rows.
type TransactionRepo struct {
	DB *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) *TransactionRepo {
	return &TransactionRepo{DB: db}
}

func (r *TransactionRepo) Create(ctx context.Context, t *models.Transaction) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepo) ListByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// ExistsForEnrollment reports whether an entry-fee ledger row already
// references the enrollment. The reconciler uses this to find the audit gaps
// left by degraded enrollments.
func (r *TransactionRepo) ExistsForEnrollment(ctx context.Context, enrollmentID string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Transaction{}).
		Where("type = ? AND related_id = ?", models.TransactionTypeTournamentEntry, enrollmentID).
		Count(&count).Error
	return count > 0, err
}
