package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/harshdark/Rapid-Rescue/internal/adapters/persistence/models"
	"github.com/harshdark/Rapid-Rescue/internal/adapters/persistence/repositories"
	"github.com/harshdark/Rapid-Rescue/internal/core/domain"

	"gorm.io/gorm"
)

// Status errors
var (
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrStatusRequired    = errors.New("status is required")

	// ErrStatusConflict is returned when every attempt lost the
	// status swap to a concurrent transition. Transient.
	ErrStatusConflict = errors.New("status updated concurrently")

	// errTransitionConflict is internal to the retry loop: the status
	// changed between our read and the conditional update.
	errTransitionConflict = errors.New("stale status read")
)

// maxTransitionAttempts bounds the read-swap retry loop
const maxTransitionAttempts = 3

// StatusService applies complaint status transitions. Any non-empty status
// string is accepted, not just the known constants. The status write, the
// history append and the conditional officer release are applied as one
// atomic unit.
type StatusService struct {
	complaintRepo repositories.ComplaintRepository
	officerRepo   repositories.OfficerRepository
	tx            repositories.Transactor
	notifier      Notifier
}

// NewStatusService creates a new status service
func NewStatusService(
	complaintRepo repositories.ComplaintRepository,
	officerRepo repositories.OfficerRepository,
	tx repositories.Transactor,
	notifier Notifier,
) *StatusService {
	return &StatusService{
		complaintRepo: complaintRepo,
		officerRepo:   officerRepo,
		tx:            tx,
		notifier:      notifier,
	}
}

// Transition sets a new status on a complaint, records the history entry and,
// when the new status is terminal (resolved/closed, case-insensitive),
// releases the assigned officer's availability. Releasing an already
// available officer is a no-op, so repeating a terminal transition is safe.
// Reverting a closed complaint to an earlier status does NOT re-mark the
// officer busy.
//
// The write is a conditional swap on the status read at the top of the
// transaction, so two racing transitions serialize: the loser re-reads and
// retries, and its history entry chains from the winner's status.
func (s *StatusService) Transition(ctx context.Context, complaintID uint, newStatus, actor string) (*models.Complaint, error) {
	newStatus = strings.TrimSpace(newStatus)
	if newStatus == "" {
		return nil, ErrStatusRequired
	}

	for attempt := 1; attempt <= maxTransitionAttempts; attempt++ {
		complaint, err := s.transitionOnce(ctx, complaintID, newStatus, actor)
		if errors.Is(err, errTransitionConflict) {
			log.Printf("🔁 Complaint %d status changed concurrently, retrying (attempt %d/%d)",
				complaintID, attempt, maxTransitionAttempts)
			continue
		}
		if err != nil {
			return nil, err
		}

		log.Printf("✅ Complaint %s status updated to %q by %s", complaint.RefID, newStatus, actor)

		s.notifyStatusChange(complaint, newStatus)
		return complaint, nil
	}

	return nil, ErrStatusConflict
}

func (s *StatusService) transitionOnce(ctx context.Context, complaintID uint, newStatus, actor string) (*models.Complaint, error) {
	var complaint *models.Complaint
	err := s.tx.InTx(ctx, func(tx *gorm.DB) error {
		store := s.complaintRepo.WithTx(tx)

		c, err := store.GetByID(ctx, complaintID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrComplaintNotFound
			}
			return err
		}

		oldStatus := c.Status
		swapped, err := store.UpdateStatusFrom(ctx, c.ID, oldStatus, newStatus)
		if err != nil {
			return err
		}
		if !swapped {
			return errTransitionConflict
		}

		entry := &models.ComplaintHistory{
			ComplaintID: c.ID,
			OldStatus:   &oldStatus,
			NewStatus:   newStatus,
			ChangedBy:   actor,
		}
		if err := store.AppendHistory(ctx, entry); err != nil {
			return err
		}

		if c.AssignedOfficerID != nil && domain.IsTerminalStatus(newStatus) {
			if err := s.officerRepo.WithTx(tx).Release(ctx, *c.AssignedOfficerID); err != nil {
				return err
			}
		}

		c.Status = newStatus
		complaint = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return complaint, nil
}

// notifyStatusChange fires the push intent to the assigned officer after
// commit. Best-effort.
func (s *StatusService) notifyStatusChange(complaint *models.Complaint, newStatus string) {
	if s.notifier == nil || complaint.AssignedOfficer == nil || complaint.AssignedOfficer.DeviceToken == nil {
		return
	}
	token := *complaint.AssignedOfficer.DeviceToken
	ref := complaint.RefID
	go func() {
		s.notifier.Notify(token, "Complaint Status Updated", fmt.Sprintf("Ref %s: %s", ref, newStatus))
	}()
}
