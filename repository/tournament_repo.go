package repository

import (
	"context"
	"errors"
	"time"

	"arena-clash/models"

	"gorm.io/gorm"
)

type TournamentRepo struct {
	DB *gorm.DB
}

func NewTournamentRepo(db *gorm.DB) *TournamentRepo {
	return &TournamentRepo{DB: db}
}

// TournamentFilter narrows List. Zero values mean "no filter".
type TournamentFilter struct {
	Region string
	GameID string
	Status string
}

func (r *TournamentRepo) List(ctx context.Context, f TournamentFilter) ([]models.Tournament, error) {
	q := r.DB.WithContext(ctx).Model(&models.Tournament{})
	if f.Region != "" {
		q = q.Where("region = ?", f.Region)
	}
	if f.GameID != "" {
		q = q.Where("game_id = ?", f.GameID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var tournaments []models.Tournament
	if err := q.Order("start_time ASC").Find(&tournaments).Error; err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *TournamentRepo) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	var t models.Tournament
	if err := r.DB.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TournamentRepo) Create(ctx context.Context, t *models.Tournament) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *TournamentRepo) Update(ctx context.Context, id string, updates map[string]interface{}) (*models.Tournament, error) {
	result := r.DB.WithContext(ctx).Model(&models.Tournament{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// ReserveSpot takes one spot with a single conditional UPDATE, so two
// enrollments racing for the last spot can never both win: the decrement
// only happens while spots_left > 0, and the database serializes the two
// statements.
func (r *TournamentRepo) ReserveSpot(ctx context.Context, id string) (*models.Tournament, error) {
	result := r.DB.WithContext(ctx).Model(&models.Tournament{}).
		Where("id = ? AND spots_left > 0", id).
		Update("spots_left", gorm.Expr("spots_left - 1"))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish "full" from "gone".
		var count int64
		if err := r.DB.WithContext(ctx).Model(&models.Tournament{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrNotFound
		}
		return nil, ErrNoSpotsLeft
	}
	return r.GetByID(ctx, id)
}

// ReleaseSpot returns one spot, capped at TotalSpots. Used only as a
// compensating action after a later enrollment step fails.
func (r *TournamentRepo) ReleaseSpot(ctx context.Context, id string) error {
	result := r.DB.WithContext(ctx).Model(&models.Tournament{}).
		Where("id = ? AND spots_left < total_spots", id).
		Update("spots_left", gorm.Expr("spots_left + 1"))
	return result.Error
}

// ArchivePast flips published tournaments whose start time has passed to
// archived. Returns how many rows changed.
func (r *TournamentRepo) ArchivePast(ctx context.Context, now time.Time) (int64, error) {
	result := r.DB.WithContext(ctx).Model(&models.Tournament{}).
		Where("status = ? AND start_time <= ?", models.TournamentStatusPublished, now).
		Update("status", models.TournamentStatusArchived)
	return result.RowsAffected, result.Error
}
