package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/harshdark/Rapid-Rescue/internal/adapters/persistence/models"
	"github.com/harshdark/Rapid-Rescue/internal/adapters/persistence/repositories"
	"github.com/harshdark/Rapid-Rescue/internal/core/domain"
	"github.com/harshdark/Rapid-Rescue/internal/pkg/geo"

	"gorm.io/gorm"
)

// Assignment errors
var (
	// ErrAssignmentUnavailable is returned when every selection attempt lost
	// the availability race. Transient: the caller may leave the complaint
	// unassigned for manual handling.
	ErrAssignmentUnavailable = errors.New("assignment temporarily unavailable")

	// ErrComplaintAlreadyAssigned is returned when the complaint already has
	// an assignee. Assigning over it would strand the previous officer
	// unavailable with no complaint pointing at them.
	ErrComplaintAlreadyAssigned = errors.New("complaint already assigned")

	// errClaimConflict is internal to the retry loop and never surfaced: the
	// selected officer was claimed by a concurrent assignment between the
	// snapshot read and our conditional update.
	errClaimConflict = errors.New("officer claimed concurrently")
)

// maxAssignAttempts bounds the select-claim retry loop
const maxAssignAttempts = 3

// AssignmentService routes a new complaint to the nearest available officer.
// Selection runs over a snapshot of available officers; the claim itself is a
// conditional update inside one transaction with the complaint mutation and
// the history append, so two racing submissions can never both take the same
// officer.
type AssignmentService struct {
	officerRepo   repositories.OfficerRepository
	complaintRepo repositories.ComplaintRepository
	tx            repositories.Transactor
	notifier      Notifier
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(
	officerRepo repositories.OfficerRepository,
	complaintRepo repositories.ComplaintRepository,
	tx repositories.Transactor,
	notifier Notifier,
) *AssignmentService {
	return &AssignmentService{
		officerRepo:   officerRepo,
		complaintRepo: complaintRepo,
		tx:            tx,
		notifier:      notifier,
	}
}

// NearestOfficer selects the officer minimizing haversine distance to the
// given point. Officers must be passed in ascending-id order; equal distances
// resolve to the first candidate seen. Officers without registered
// coordinates count as infinitely far and are picked (again in id order) only
// when no officer with coordinates exists. A NaN distance means the officer
// is never selected. Returns nil when the slice is empty or nobody qualifies.
func NearestOfficer(officers []models.User, lat, lon float64) *models.User {
	var nearest *models.User
	best := math.Inf(1)
	var fallback *models.User

	for i := range officers {
		o := &officers[i]
		if !o.HasLocation() {
			if fallback == nil {
				fallback = o
			}
			continue
		}
		d := geo.Distance(lat, lon, *o.Latitude, *o.Longitude)
		if math.IsNaN(d) {
			continue
		}
		if d < best {
			best = d
			nearest = o
		}
	}

	if nearest != nil {
		return nearest
	}
	return fallback
}

// AssignNearest assigns the complaint to the nearest available officer.
// Returns (nil, nil) when the complaint has no coordinates or no officer is
// available; either way all officer and complaint state is left untouched.
// On success the officer is marked busy, the complaint moves to Assigned with
// a history entry, and a push intent is fired after commit.
//
// This runs exactly once, at submission time. If nobody was free the
// complaint simply stays New and unassigned until an admin assigns it by
// hand; there is no re-queueing.
func (s *AssignmentService) AssignNearest(ctx context.Context, complaint *models.Complaint) (*models.User, error) {
	if complaint.Latitude == nil || complaint.Longitude == nil {
		return nil, nil
	}
	lat, lon := *complaint.Latitude, *complaint.Longitude

	for attempt := 1; attempt <= maxAssignAttempts; attempt++ {
		candidates, err := s.officerRepo.ListAvailable(ctx)
		if err != nil {
			return nil, err
		}

		officer := NearestOfficer(candidates, lat, lon)
		if officer == nil {
			log.Printf("⚠️ No officer available for complaint %s", complaint.RefID)
			return nil, nil
		}

		err = s.claimAndAssign(ctx, complaint, officer.ID)
		if errors.Is(err, errClaimConflict) {
			log.Printf("🔁 Officer %d claimed concurrently, retrying selection (attempt %d/%d)",
				officer.ID, attempt, maxAssignAttempts)
			continue
		}
		if err != nil {
			return nil, err
		}

		complaint.Status = domain.StatusAssigned
		complaint.AssignedOfficerID = &officer.ID

		log.Printf("✅ Complaint %s assigned to officer %d (%s)", complaint.RefID, officer.ID, officer.Name)

		s.notifyAssigned(officer, complaint)
		return officer, nil
	}

	return nil, ErrAssignmentUnavailable
}

// AssignTo assigns the complaint to a specific officer (admin manual
// assignment). The complaint must not be assigned yet and the officer must
// currently be available; the same claim semantics as automatic assignment
// apply.
func (s *AssignmentService) AssignTo(ctx context.Context, complaint *models.Complaint, officerID uint, actor string) (*models.User, error) {
	if complaint.AssignedOfficerID != nil {
		return nil, ErrComplaintAlreadyAssigned
	}

	officer, err := s.officerRepo.GetByID(ctx, officerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOfficerNotFound
		}
		return nil, err
	}

	if err := s.claimAndAssignBy(ctx, complaint, officer.ID, actor); err != nil {
		if errors.Is(err, errClaimConflict) {
			return nil, ErrAssignmentUnavailable
		}
		return nil, err
	}

	complaint.Status = domain.StatusAssigned
	complaint.AssignedOfficerID = &officer.ID

	log.Printf("✅ Complaint %s manually assigned to officer %d by %s", complaint.RefID, officer.ID, actor)

	s.notifyAssigned(officer, complaint)
	return officer, nil
}

func (s *AssignmentService) claimAndAssign(ctx context.Context, complaint *models.Complaint, officerID uint) error {
	return s.claimAndAssignBy(ctx, complaint, officerID, domain.SystemActor)
}

// claimAndAssignBy applies the claim, the assignment and the history entry as
// one all-or-nothing unit.
func (s *AssignmentService) claimAndAssignBy(ctx context.Context, complaint *models.Complaint, officerID uint, actor string) error {
	oldStatus := complaint.Status
	return s.tx.InTx(ctx, func(tx *gorm.DB) error {
		claimed, err := s.officerRepo.WithTx(tx).ClaimAvailable(ctx, officerID)
		if err != nil {
			return err
		}
		if !claimed {
			return errClaimConflict
		}

		store := s.complaintRepo.WithTx(tx)
		set, err := store.SetAssignment(ctx, complaint.ID, officerID)
		if err != nil {
			return err
		}
		if !set {
			// lost the complaint side of the race; rolls back the claim
			return ErrComplaintAlreadyAssigned
		}

		entry := &models.ComplaintHistory{
			ComplaintID: complaint.ID,
			OldStatus:   &oldStatus,
			NewStatus:   domain.StatusAssigned,
			ChangedBy:   actor,
		}
		return store.AppendHistory(ctx, entry)
	})
}

// notifyAssigned fires the push intent after the transaction has committed,
// outside any lock. Delivery failure never affects the assignment.
func (s *AssignmentService) notifyAssigned(officer *models.User, complaint *models.Complaint) {
	if s.notifier == nil || officer.DeviceToken == nil {
		return
	}
	token := *officer.DeviceToken
	body := complaint.Description
	ref := complaint.RefID
	go func() {
		s.notifier.Notify(token, "New Complaint Assigned", fmt.Sprintf("Ref %s: %s", ref, body))
	}()
}
