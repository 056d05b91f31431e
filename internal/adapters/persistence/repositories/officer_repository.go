package repositories

import (
	"context"

	"github.com/harshdark/Rapid-Rescue/internal/adapters/persistence/models"
	"github.com/harshdark/Rapid-Rescue/internal/core/domain"

	"gorm.io/gorm"
)

// officerRepository implements OfficerRepository over the users table
type officerRepository struct {
	db *gorm.DB
}

// NewOfficerRepository creates a new officer repository
func NewOfficerRepository(db *gorm.DB) OfficerRepository {
	return &officerRepository{db: db}
}

// WithTx returns the repository bound to an open transaction
func (r *officerRepository) WithTx(tx *gorm.DB) OfficerRepository {
	if tx == nil {
		return r
	}
	return &officerRepository{db: tx}
}

// GetByID gets an officer by ID
func (r *officerRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var officer models.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", id, domain.RoleOfficer).
		First(&officer).Error
	if err != nil {
		return nil, err
	}
	return &officer, nil
}

// ListOfficers returns all officers ordered by id
func (r *officerRepository) ListOfficers(ctx context.Context) ([]models.User, error) {
	var officers []models.User
	err := r.db.WithContext(ctx).
		Where("role = ?", domain.RoleOfficer).
		Order("id ASC").
		Find(&officers).Error
	return officers, err
}

// ListAvailable returns available officers ordered by id. The ascending-id
// order is part of the nearest-selection contract: equal distances resolve to
// the first officer encountered.
func (r *officerRepository) ListAvailable(ctx context.Context) ([]models.User, error) {
	var officers []models.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND is_available = ?", domain.RoleOfficer, true).
		Order("id ASC").
		Find(&officers).Error
	return officers, err
}

// ClaimAvailable flips is_available false only if it is currently true.
// The WHERE guard plus the affected-rows check is what serializes two
// concurrent assignments racing for the same officer.
func (r *officerRepository) ClaimAvailable(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND role = ? AND is_available = ?", id, domain.RoleOfficer, true).
		Update("is_available", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Release marks an officer available again. Setting true on an already
// available officer is a no-op, which keeps terminal transitions idempotent.
func (r *officerRepository) Release(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("is_available", true).Error
}

// SetAvailability sets the availability flag explicitly (admin operation)
func (r *officerRepository) SetAvailability(ctx context.Context, id uint, available bool) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND role = ?", id, domain.RoleOfficer).
		Update("is_available", available)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateLocation updates an officer's registered coordinates
func (r *officerRepository) UpdateLocation(ctx context.Context, id uint, lat, lon float64) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND role = ?", id, domain.RoleOfficer).
		Updates(map[string]interface{}{
			"latitude":  lat,
			"longitude": lon,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
