package repository

import (
	"context"
	"errors"

	"arena-clash/models"

	"gorm.io/gorm"
)

type EnrollmentRepo struct {
	DB *gorm.DB
}

func NewEnrollmentRepo(db *gorm.DB) *EnrollmentRepo {
	return &EnrollmentRepo{DB: db}
}

func (r *EnrollmentRepo) GetByID(ctx context.Context, id string) (*models.Enrollment, error) {
	var e models.Enrollment
	if err := r.DB.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Exists reports whether the user already holds a seat in the tournament.
func (r *EnrollmentRepo) Exists(ctx context.Context, userID, tournamentID string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Enrollment{}).
		Where("user_id = ? AND tournament_id = ?", userID, tournamentID).
		Count(&count).Error
	return count > 0, err
}

// Create inserts the enrollment row. The composite unique index on
// (user_id, tournament_id) backs up the pre-insert Exists check, so a
// concurrent duplicate surfaces as ErrDuplicate instead of a second seat.
func (r *EnrollmentRepo) Create(ctx context.Context, e *models.Enrollment) error {
	if err := r.DB.WithContext(ctx).Create(e).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *EnrollmentRepo) ListByTournament(ctx context.Context, tournamentID string) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.DB.WithContext(ctx).
		Where("tournament_id = ?", tournamentID).
		Order("created_at ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *EnrollmentRepo) ListByUser(ctx context.Context, userID string) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *EnrollmentRepo) CountByTournament(ctx context.Context, tournamentID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Enrollment{}).
		Where("tournament_id = ?", tournamentID).
		Count(&count).Error
	return count, err
}
