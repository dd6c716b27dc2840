package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"arena-clash/metrics"
	"arena-clash/models"
	"arena-clash/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInvalidInGameName is returned when the player-supplied in-game name is
// outside 3-50 characters.
var ErrInvalidInGameName = errors.New("in_game_name must be 3-50 characters")

// EnrollmentService drives a single user's tournament signup through the
// ordered effect sequence: wallet debit, spot reservation, enrollment insert,
// ledger insert. The four writes hit four independent tables with no spanning
// transaction, so every failure path performs its compensating actions
// explicitly before reporting the error:
//
//	step failing        wallet   spot      enrollment  outcome
//	precondition        -        -         -           blocked, no side effects
//	funds computation   -        -         -           ErrInsufficientBalance
//	spot reservation    restored -         -           ErrSpotUnavailable
//	enrollment insert   restored released  -           ErrEnrollmentFailed
//	ledger insert       kept     kept      kept        success + audit warning
//
// The ledger asymmetry is intentional: by that point the user holds a valid
// seat, and a gap in the audit trail is the lesser failure. The reconciler
// worker backfills those rows later.
type EnrollmentService struct {
	Tournaments  TournamentStore
	Users        UserStore
	Enrollments  EnrollmentStore
	Transactions TransactionStore

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// The stores are what the orchestrator needs from each repository; the
// concrete repos satisfy them.
type TournamentStore interface {
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	ReserveSpot(ctx context.Context, id string) (*models.Tournament, error)
	ReleaseSpot(ctx context.Context, id string) error
}

type UserStore interface {
	GetByID(ctx context.Context, uid string) (*models.User, error)
	DebitWallet(ctx context.Context, uid string, credits, winnings float64) (*models.User, error)
	SetWallet(ctx context.Context, uid string, w models.WalletBalance) error
}

type EnrollmentStore interface {
	Exists(ctx context.Context, userID, tournamentID string) (bool, error)
	Create(ctx context.Context, e *models.Enrollment) error
	ListByUser(ctx context.Context, userID string) ([]models.Enrollment, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.Enrollment, error)
}

type TransactionStore interface {
	Create(ctx context.Context, t *models.Transaction) error
}

func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{
		Tournaments:  repository.NewTournamentRepo(db),
		Users:        repository.NewUserRepo(db),
		Enrollments:  repository.NewEnrollmentRepo(db),
		Transactions: repository.NewTransactionRepo(db),
		Now:          time.Now,
	}
}

type EnrollInput struct {
	TournamentID string `json:"tournament_id" validate:"required"`
	GameID       string `json:"game_id" validate:"required"`
	UserID       string `json:"-"`
	InGameName   string `json:"in_game_name" validate:"required,min=3,max=50"`
}

type EnrollResult struct {
	Tournament  *models.Tournament  `json:"tournament"`
	Enrollment  *models.Enrollment  `json:"enrollment"`
	LedgerEntry *models.Transaction `json:"ledger_entry,omitempty"`

	// AuditWarning is set when the seat is valid but the ledger write
	// failed. The user keeps the enrollment and is asked to contact support
	// with the enrollment id.
	AuditWarning string `json:"audit_warning,omitempty"`
}

// FeeSplit is the funds computation: credits are always exhausted before
// winnings are touched.
type FeeSplit struct {
	Credits  float64
	Winnings float64
}

// SplitEntryFee computes how an entry fee is covered by the wallet.
// Returns ErrInsufficientBalance when the wallet cannot cover the fee.
func SplitEntryFee(w models.WalletBalance, fee float64) (FeeSplit, error) {
	if w.Total() < fee {
		return FeeSplit{}, ErrInsufficientBalance
	}
	credits := w.Credits
	if credits > fee {
		credits = fee
	}
	return FeeSplit{Credits: credits, Winnings: fee - credits}, nil
}

// Enroll runs the full signup sequence for one user. On success the returned
// result carries the updated tournament and the new enrollment; a non-empty
// AuditWarning means the signup stands but its ledger row is missing.
func (s *EnrollmentService) Enroll(ctx context.Context, in EnrollInput) (*EnrollResult, error) {
	in.InGameName = strings.TrimSpace(in.InGameName)
	if len(in.InGameName) < 3 || len(in.InGameName) > 50 {
		metrics.EnrollmentAttempts.WithLabelValues("precondition_failed").Inc()
		return nil, ErrInvalidInGameName
	}

	// --- Step 1: preconditions, no side effects ---
	tournament, err := s.Tournaments.GetByID(ctx, in.TournamentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.EnrollmentAttempts.WithLabelValues("precondition_failed").Inc()
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.GameID != in.GameID {
		metrics.EnrollmentAttempts.WithLabelValues("precondition_failed").Inc()
		return nil, ErrGameMismatch
	}
	if !tournament.RegistrationOpen(s.Now()) {
		metrics.EnrollmentAttempts.WithLabelValues("precondition_failed").Inc()
		return nil, ErrRegistrationClosed
	}

	user, err := s.Users.GetByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.EnrollmentAttempts.WithLabelValues("precondition_failed").Inc()
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Region != tournament.Region {
		metrics.EnrollmentAttempts.WithLabelValues("precondition_failed").Inc()
		return nil, ErrRegionMismatch
	}

	enrolled, err := s.Enrollments.Exists(ctx, user.UID, tournament.ID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		metrics.EnrollmentAttempts.WithLabelValues("precondition_failed").Inc()
		return nil, ErrAlreadyEnrolled
	}
	if tournament.SpotsLeft <= 0 {
		metrics.EnrollmentAttempts.WithLabelValues("precondition_failed").Inc()
		return nil, ErrTournamentFull
	}

	// --- Step 2: funds computation, still no side effects ---
	snapshot := user.Wallet()
	split, err := SplitEntryFee(snapshot, tournament.EntryFee)
	if err != nil {
		metrics.EnrollmentAttempts.WithLabelValues("insufficient_balance").Inc()
		return nil, err
	}

	// --- Step 3: wallet debit (effect #1) ---
	debited := tournament.EntryFee > 0
	if debited {
		if _, err := s.Users.DebitWallet(ctx, user.UID, split.Credits, split.Winnings); err != nil {
			if errors.Is(err, repository.ErrWalletShort) {
				// Balance changed under us since the read; nothing was written.
				metrics.EnrollmentAttempts.WithLabelValues("insufficient_balance").Inc()
				return nil, ErrInsufficientBalance
			}
			metrics.EnrollmentAttempts.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("wallet debit failed: %w", err)
		}
	}

	// --- Step 4: spot reservation (effect #2) ---
	updated, err := s.Tournaments.ReserveSpot(ctx, tournament.ID)
	if err != nil {
		if debited {
			s.restoreWallet(ctx, user.UID, snapshot)
		}
		if errors.Is(err, repository.ErrNoSpotsLeft) || errors.Is(err, repository.ErrNotFound) {
			metrics.EnrollmentAttempts.WithLabelValues("spot_unavailable").Inc()
			return nil, ErrSpotUnavailable
		}
		metrics.EnrollmentAttempts.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("spot reservation failed: %w", err)
	}

	// --- Step 5: enrollment insert (effect #3) ---
	enrollment := &models.Enrollment{
		ID:             uuid.NewString(),
		TournamentID:   tournament.ID,
		UserID:         user.UID,
		TournamentName: tournament.Name,
		GameID:         tournament.GameID,
		UserEmail:      user.Email,
		InGameName:     in.InGameName,
	}
	if err := s.Enrollments.Create(ctx, enrollment); err != nil {
		if debited {
			s.restoreWallet(ctx, user.UID, snapshot)
		}
		s.releaseSpot(ctx, tournament.ID)
		if errors.Is(err, repository.ErrDuplicate) {
			// A concurrent request won the seat between our Exists check and
			// the insert; the unique index caught it.
			metrics.EnrollmentAttempts.WithLabelValues("precondition_failed").Inc()
			return nil, ErrAlreadyEnrolled
		}
		metrics.EnrollmentAttempts.WithLabelValues("enrollment_failed").Inc()
		return nil, ErrEnrollmentFailed
	}

	result := &EnrollResult{Tournament: updated, Enrollment: enrollment}

	// --- Step 6: ledger insert (effect #4, audit only, never rolled back) ---
	entry := &models.Transaction{
		ID:          uuid.NewString(),
		UserID:      user.UID,
		Type:        models.TransactionTypeTournamentEntry,
		Amount:      -tournament.EntryFee,
		Currency:    tournament.EntryFeeCurrency,
		Description: fmt.Sprintf("Entry fee for %s", tournament.Name),
		RelatedID:   enrollment.ID,
	}
	if err := s.Transactions.Create(ctx, entry); err != nil {
		log.Printf("[ENROLL] ledger write failed for enrollment %s (user %s): %v", enrollment.ID, user.UID, err)
		result.AuditWarning = fmt.Sprintf(
			"enrollment %s succeeded but the payment record could not be written; please contact support with this enrollment id",
			enrollment.ID,
		)
		metrics.EnrollmentAttempts.WithLabelValues("audit_degraded").Inc()
		return result, nil
	}

	result.LedgerEntry = entry
	metrics.EnrollmentAttempts.WithLabelValues("success").Inc()
	return result, nil
}

// restoreWallet rewrites the pre-debit snapshot. A failure here leaves the
// user debited without a seat, which must never pass silently.
func (s *EnrollmentService) restoreWallet(ctx context.Context, uid string, snapshot models.WalletBalance) {
	metrics.CompensationRuns.WithLabelValues("wallet_restore").Inc()
	if err := s.Users.SetWallet(ctx, uid, snapshot); err != nil {
		log.Printf("[ENROLL] CRITICAL: wallet restore failed for user %s (credits=%.2f winnings=%.2f): %v",
			uid, snapshot.Credits, snapshot.Winnings, err)
	}
}

func (s *EnrollmentService) releaseSpot(ctx context.Context, tournamentID string) {
	metrics.CompensationRuns.WithLabelValues("spot_release").Inc()
	if err := s.Tournaments.ReleaseSpot(ctx, tournamentID); err != nil {
		log.Printf("[ENROLL] CRITICAL: spot release failed for tournament %s: %v", tournamentID, err)
	}
}
