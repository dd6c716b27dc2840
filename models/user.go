package models

import (
	"time"
)

// User is a platform account. The wallet is split into two sub-balances:
// credits (promotional) and winnings (withdrawable). Entry fees always
// consume credits before winnings. Neither component may ever go negative.
type User struct {
	UID         string `json:"uid" gorm:"primaryKey"`
	Email       string `json:"email" gorm:"uniqueIndex;not null"` // stored lowercased
	DisplayName string `json:"display_name" gorm:"not null"`
	Region      string `json:"region" gorm:"type:varchar(4);not null"`

	WalletCredits  float64 `json:"wallet_credits" gorm:"not null;default:0"`
	WalletWinnings float64 `json:"wallet_winnings" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// WalletBalance is the wallet as presented to clients and snapshotted by the
// enrollment flow for compensation.
type WalletBalance struct {
	Credits  float64 `json:"credits"`
	Winnings float64 `json:"winnings"`
}

func (u *User) Wallet() WalletBalance {
	return WalletBalance{Credits: u.WalletCredits, Winnings: u.WalletWinnings}
}

// Total is the amount available for an entry fee, regardless of split.
func (w WalletBalance) Total() float64 {
	return w.Credits + w.Winnings
}
