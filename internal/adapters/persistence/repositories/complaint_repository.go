package repositories

import (
	"context"

	"github.com/harshdark/Rapid-Rescue/internal/adapters/persistence/models"
	"github.com/harshdark/Rapid-Rescue/internal/core/domain"

	"gorm.io/gorm"
)

// complaintRepository implements ComplaintRepository
type complaintRepository struct {
	db *gorm.DB
}

// NewComplaintRepository creates a new complaint repository
func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &complaintRepository{db: db}
}

// WithTx returns the repository bound to an open transaction
func (r *complaintRepository) WithTx(tx *gorm.DB) ComplaintRepository {
	if tx == nil {
		return r
	}
	return &complaintRepository{db: tx}
}

// Create creates a new complaint
func (r *complaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	return r.db.WithContext(ctx).Create(complaint).Error
}

// GetByID gets a complaint by ID with the assigned officer preloaded
func (r *complaintRepository) GetByID(ctx context.Context, id uint) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.db.WithContext(ctx).
		Preload("AssignedOfficer").
		First(&complaint, id).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

// GetByRefID gets a complaint by its reference code
func (r *complaintRepository) GetByRefID(ctx context.Context, refID string) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.db.WithContext(ctx).
		Where("ref_id = ?", refID).
		First(&complaint).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

// ListByEmail returns complaints filed under an email, newest first
func (r *complaintRepository) ListByEmail(ctx context.Context, email string) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		Find(&complaints).Error
	return complaints, err
}

// ListByAssignedOfficer returns complaints assigned to an officer, newest first
func (r *complaintRepository) ListByAssignedOfficer(ctx context.Context, officerID uint) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.WithContext(ctx).
		Where("assigned_officer_id = ?", officerID).
		Order("created_at DESC").
		Find(&complaints).Error
	return complaints, err
}

// SearchByRef returns one page of complaints whose reference code contains
// the given substring, newest first, plus the total match count. An empty
// substring lists everything.
func (r *complaintRepository) SearchByRef(ctx context.Context, refSubstring string, offset, limit int) ([]models.Complaint, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Complaint{})
	if refSubstring != "" {
		q = q.Where("ref_id LIKE ?", "%"+refSubstring+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var complaints []models.Complaint
	err := q.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&complaints).Error
	return complaints, total, err
}

// ListUnassigned returns complaints still in status New with no assignee
func (r *complaintRepository) ListUnassigned(ctx context.Context) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.WithContext(ctx).
		Where("assigned_officer_id IS NULL AND status = ?", domain.StatusNew).
		Order("created_at ASC").
		Find(&complaints).Error
	return complaints, err
}

// SetAssignment sets the assignee and moves status to Assigned. The guard on
// assigned_officer_id makes two racing assignments of the same complaint
// resolve to exactly one winner, same shape as the officer claim.
func (r *complaintRepository) SetAssignment(ctx context.Context, id uint, officerID uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Complaint{}).
		Where("id = ? AND assigned_officer_id IS NULL", id).
		Updates(map[string]interface{}{
			"assigned_officer_id": officerID,
			"status":              domain.StatusAssigned,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateStatusFrom moves the status via a conditional update so concurrent
// transitions serialize on the row instead of clobbering each other
func (r *complaintRepository) UpdateStatusFrom(ctx context.Context, id uint, oldStatus, newStatus string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Complaint{}).
		Where("id = ? AND status = ?", id, oldStatus).
		Update("status", newStatus)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AppendHistory appends one audit entry. History rows are never updated or
// deleted.
func (r *complaintRepository) AppendHistory(ctx context.Context, entry *models.ComplaintHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListHistory returns a complaint's history in chronological order
func (r *complaintRepository) ListHistory(ctx context.Context, complaintID uint) ([]models.ComplaintHistory, error) {
	var entries []models.ComplaintHistory
	err := r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("timestamp ASC, id ASC").
		Find(&entries).Error
	return entries, err
}
