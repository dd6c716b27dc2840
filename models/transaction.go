package models

import (
	"time"
)

const (
	TransactionTypeTournamentEntry = "tournament_entry"
	TransactionTypeWalletCredit    = "wallet_credit"
	TransactionTypeAdjustment      = "adjustment"
)

// Transaction is one row of the append-only ledger. Amount is signed:
// negative for debits (entry fees), positive for credits. Rows are never
// mutated after creation except by explicit administrative correction.
type Transaction struct {
	ID     string `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"not null;index"`

	Type     string  `json:"type" gorm:"type:varchar(32);not null"`
	Amount   float64 `json:"amount" gorm:"not null"` // signed, negative = debit
	Currency string  `json:"currency" gorm:"type:varchar(8);not null"`

	Description string `json:"description"`
	RelatedID   string `json:"related_id" gorm:"index"` // enrollment id, admin action id, ...

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
