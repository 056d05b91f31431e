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
	"github.com/harshdark/Rapid-Rescue/internal/pkg/refcode"

	"gorm.io/gorm"
)

// Complaint errors
var (
	ErrDescriptionRequired = errors.New("description is required")
)

// ComplaintService handles complaint intake and read views
type ComplaintService struct {
	complaintRepo repositories.ComplaintRepository
	tx            repositories.Transactor
	assignSvc     *AssignmentService
	emailSender   EmailSender
}

// NewComplaintService creates a new complaint service
func NewComplaintService(
	complaintRepo repositories.ComplaintRepository,
	tx repositories.Transactor,
	assignSvc *AssignmentService,
	emailSender EmailSender,
) *ComplaintService {
	return &ComplaintService{
		complaintRepo: complaintRepo,
		tx:            tx,
		assignSvc:     assignSvc,
		emailSender:   emailSender,
	}
}

// CreateComplaintInput represents complaint submission
type CreateComplaintInput struct {
	ReporterName string   `json:"reporter_name"`
	Email        string   `json:"email"`
	PhoneNumber  string   `json:"phone_number"`
	IncidentType string   `json:"incident_type"`
	Description  string   `json:"description" validate:"required"`
	Location     string   `json:"location"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	MapsLink     string   `json:"maps_link"`
	PhotoPath    *string  `json:"photo_path"`
}

// CreateComplaintResponse is the submission result shape
type CreateComplaintResponse struct {
	ID     uint   `json:"id"`
	RefID  string `json:"ref_id"`
	Status string `json:"status"`
}

// Create files a new complaint: generates the reference code, writes the
// complaint together with its creation history entry (nil → New, actor
// system), then attempts nearest-officer assignment when coordinates are
// present. Complaints without coordinates stay New and unassigned for manual
// dispatch. The confirmation email goes out after everything committed.
func (s *ComplaintService) Create(ctx context.Context, input *CreateComplaintInput) (*CreateComplaintResponse, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, ErrDescriptionRequired
	}

	mapsLink := input.MapsLink
	if mapsLink == "" && input.Latitude != nil && input.Longitude != nil {
		mapsLink = fmt.Sprintf("https://maps.google.com/?q=%v,%v", *input.Latitude, *input.Longitude)
	}

	complaint := &models.Complaint{
		RefID:        refcode.New(),
		ReporterName: input.ReporterName,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		IncidentType: input.IncidentType,
		Description:  input.Description,
		Location:     input.Location,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		MapsLink:     mapsLink,
		PhotoPath:    input.PhotoPath,
		Status:       domain.StatusNew,
	}

	err := s.tx.InTx(ctx, func(tx *gorm.DB) error {
		store := s.complaintRepo.WithTx(tx)
		if err := store.Create(ctx, complaint); err != nil {
			return err
		}
		entry := &models.ComplaintHistory{
			ComplaintID: complaint.ID,
			OldStatus:   nil,
			NewStatus:   domain.StatusNew,
			ChangedBy:   domain.SystemActor,
		}
		return store.AppendHistory(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Complaint filed: %s (%s)", complaint.RefID, complaint.IncidentType)

	// Auto-assign. The complaint is already durable at this point, so any
	// assignment failure leaves it created-and-unassigned and the reporter
	// still gets their reference code; unassigned complaints show up in the
	// daily digest for manual handling.
	if _, err := s.assignSvc.AssignNearest(ctx, complaint); err != nil {
		log.Printf("⚠️ Assignment failed for complaint %s, left unassigned: %v", complaint.RefID, err)
	}

	s.sendConfirmation(complaint)

	return &CreateComplaintResponse{
		ID:     complaint.ID,
		RefID:  complaint.RefID,
		Status: complaint.Status,
	}, nil
}

// GetByID returns a complaint by internal ID
func (s *ComplaintService) GetByID(ctx context.Context, id uint) (*models.Complaint, error) {
	complaint, err := s.complaintRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}
	return complaint, nil
}

// Track returns the public status view for a reference code
func (s *ComplaintService) Track(ctx context.Context, refID string) (*models.Complaint, error) {
	complaint, err := s.complaintRepo.GetByRefID(ctx, strings.ToUpper(strings.TrimSpace(refID)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}
	return complaint, nil
}

// ListByEmail returns the caller's complaints, newest first
func (s *ComplaintService) ListByEmail(ctx context.Context, email string) ([]models.Complaint, error) {
	return s.complaintRepo.ListByEmail(ctx, email)
}

// ListByAssignedOfficer returns complaints assigned to an officer, newest first
func (s *ComplaintService) ListByAssignedOfficer(ctx context.Context, officerID uint) ([]models.Complaint, error) {
	return s.complaintRepo.ListByAssignedOfficer(ctx, officerID)
}

// Search returns one page of complaints matching a reference-code substring,
// newest first, plus the total match count
func (s *ComplaintService) Search(ctx context.Context, refSubstring string, offset, limit int) ([]models.Complaint, int64, error) {
	return s.complaintRepo.SearchByRef(ctx, strings.TrimSpace(refSubstring), offset, limit)
}

// History returns the audit trail of a complaint in chronological order
func (s *ComplaintService) History(ctx context.Context, complaintID uint) ([]models.ComplaintHistory, error) {
	if _, err := s.GetByID(ctx, complaintID); err != nil {
		return nil, err
	}
	return s.complaintRepo.ListHistory(ctx, complaintID)
}

// AssignTo manually assigns a complaint to a specific officer (admin action)
func (s *ComplaintService) AssignTo(ctx context.Context, complaintID, officerID uint, actor string) (*models.Complaint, error) {
	complaint, err := s.GetByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if _, err := s.assignSvc.AssignTo(ctx, complaint, officerID, actor); err != nil {
		return nil, err
	}
	return complaint, nil
}

// sendConfirmation emails the reporter after the complaint committed.
// Best-effort, off the request path.
func (s *ComplaintService) sendConfirmation(complaint *models.Complaint) {
	if s.emailSender == nil || complaint.Email == "" {
		return
	}
	to := complaint.Email
	name := complaint.ReporterName
	ref := complaint.RefID
	go func() {
		body := fmt.Sprintf(
			"Dear %s,\n\nYour complaint has been registered successfully.\nReference ID: %s\n\nWe will get back to you shortly.\n\nRegards,\nPolice Department",
			name, ref)
		s.emailSender.Send(to, "Complaint Registered", body)
	}()
}
