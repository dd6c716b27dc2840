package repository

import (
	"context"
	"errors"
	"strings"

	"arena-clash/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepo struct {
	DB *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{DB: db}
}

func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepo) GetByID(ctx context.Context, uid string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "uid = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks a user up case-insensitively; emails are stored lowercased.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "email = ?", strings.ToLower(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. Email uniqueness is backed by the unique index;
// a violation surfaces as ErrDuplicate. Requires TranslateError on the gorm
// config so driver errors map to gorm.ErrDuplicatedKey.
func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(u.Email)
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *UserRepo) Update(ctx context.Context, uid string, updates map[string]interface{}) (*models.User, error) {
	result := r.DB.WithContext(ctx).Model(&models.User{}).Where("uid = ?", uid).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, uid)
}

// DebitWallet subtracts the given amounts from the two wallet components
// inside a row-locked transaction. It refuses to drive either component
// negative and returns the post-debit user.
func (r *UserRepo) DebitWallet(ctx context.Context, uid string, credits, winnings float64) (*models.User, error) {
	var u models.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&u, "uid = ?", uid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if u.WalletCredits < credits || u.WalletWinnings < winnings {
			return ErrWalletShort
		}
		u.WalletCredits -= credits
		u.WalletWinnings -= winnings
		return tx.Model(&models.User{}).Where("uid = ?", uid).Updates(map[string]interface{}{
			"wallet_credits":  u.WalletCredits,
			"wallet_winnings": u.WalletWinnings,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreditWallet adds the given amounts. Amounts must be non-negative; the
// caller records the matching ledger row.
func (r *UserRepo) CreditWallet(ctx context.Context, uid string, credits, winnings float64) (*models.User, error) {
	var u models.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&u, "uid = ?", uid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		u.WalletCredits += credits
		u.WalletWinnings += winnings
		return tx.Model(&models.User{}).Where("uid = ?", uid).Updates(map[string]interface{}{
			"wallet_credits":  u.WalletCredits,
			"wallet_winnings": u.WalletWinnings,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SetWallet overwrites both wallet components. Only the enrollment flow uses
// this, to restore a pre-debit snapshot during compensation.
func (r *UserRepo) SetWallet(ctx context.Context, uid string, w models.WalletBalance) error {
	result := r.DB.WithContext(ctx).Model(&models.User{}).Where("uid = ?", uid).Updates(map[string]interface{}{
		"wallet_credits":  w.Credits,
		"wallet_winnings": w.Winnings,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
