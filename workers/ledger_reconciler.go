package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"arena-clash/metrics"
	"arena-clash/models"
	"arena-clash/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerReconciler repairs audit-degraded enrollments: signups whose ledger
// write failed keep their seat and their debit, so the missing entry-fee row
// is backfilled here instead of being rolled back at enrollment time.
type LedgerReconciler struct {
	DB           *gorm.DB
	Tournaments  *repository.TournamentRepo
	Transactions *repository.TransactionRepo
}

func NewLedgerReconciler(db *gorm.DB) *LedgerReconciler {
	return &LedgerReconciler{
		DB:           db,
		Tournaments:  repository.NewTournamentRepo(db),
		Transactions: repository.NewTransactionRepo(db),
	}
}

// RunOnce scans for enrollments with no matching tournament_entry row and
// inserts the missing debit entries. Returns how many rows were repaired.
func (r *LedgerReconciler) RunOnce(ctx context.Context) (int, error) {
	// orphans = enrollments with no ledger row referencing them
	var orphans []models.Enrollment
	err := r.DB.WithContext(ctx).
		Where("id NOT IN (?)", r.DB.Model(&models.Transaction{}).
			Select("related_id").
			Where("type = ?", models.TransactionTypeTournamentEntry)).
		Find(&orphans).Error
	if err != nil {
		return 0, fmt.Errorf("failed to scan for unledgered enrollments: %w", err)
	}

	repaired := 0
	for _, e := range orphans {
		tournament, err := r.Tournaments.GetByID(ctx, e.TournamentID)
		if err != nil {
			log.Printf("[Reconciler] cannot resolve tournament %s for enrollment %s: %v", e.TournamentID, e.ID, err)
			continue
		}
		entry := &models.Transaction{
			ID:          uuid.NewString(),
			UserID:      e.UserID,
			Type:        models.TransactionTypeTournamentEntry,
			Amount:      -tournament.EntryFee,
			Currency:    tournament.EntryFeeCurrency,
			Description: fmt.Sprintf("Entry fee for %s (backfilled)", tournament.Name),
			RelatedID:   e.ID,
		}
		if err := r.Transactions.Create(ctx, entry); err != nil {
			log.Printf("[Reconciler] backfill failed for enrollment %s: %v", e.ID, err)
			continue
		}
		repaired++
	}
	if repaired > 0 {
		metrics.LedgerRepairs.Add(float64(repaired))
	}
	return repaired, nil
}

// Poll runs the reconciler on a fixed interval until the context is
// cancelled.
func Poll(ctx context.Context, r *LedgerReconciler, interval time.Duration) {
	log.Println("Starting ledger reconciler...")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Ledger reconciler stopped.")
			return
		case <-ticker.C:
			n, err := r.RunOnce(ctx)
			if err != nil {
				log.Printf("[Reconciler] scan failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[Reconciler] backfilled %d ledger row(s)", n)
			}
		}
	}
}
