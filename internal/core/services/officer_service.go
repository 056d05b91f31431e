package services

import (
	"context"
	"errors"

	"github.com/harshdark/Rapid-Rescue/internal/adapters/persistence/models"
	"github.com/harshdark/Rapid-Rescue/internal/adapters/persistence/repositories"
	"github.com/harshdark/Rapid-Rescue/internal/core/domain"
	"github.com/harshdark/Rapid-Rescue/internal/pkg/password"

	"gorm.io/gorm"
)

// OfficerService manages the officer directory
type OfficerService struct {
	officerRepo repositories.OfficerRepository
	userRepo    repositories.UserRepository
}

// NewOfficerService creates a new officer service
func NewOfficerService(officerRepo repositories.OfficerRepository, userRepo repositories.UserRepository) *OfficerService {
	return &OfficerService{
		officerRepo: officerRepo,
		userRepo:    userRepo,
	}
}

// CreateOfficerInput represents officer provisioning (admin only)
type CreateOfficerInput struct {
	Name      string   `json:"name" validate:"required"`
	Username  string   `json:"username" validate:"required"`
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password" validate:"required,min=8"`
	Phone     string   `json:"phone"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// UpdateLocationInput represents an officer location report
type UpdateLocationInput struct {
	Latitude  float64 `json:"latitude" validate:"required"`
	Longitude float64 `json:"longitude" validate:"required"`
}

// CreateOfficer provisions an officer account. New officers start available.
func (s *OfficerService) CreateOfficer(ctx context.Context, input *CreateOfficerInput) (*models.UserResponse, error) {
	if !password.ValidatePassword(input.Password) {
		return nil, domain.ErrInvalidInput
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateEntry
	}

	exists, err = s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateEntry
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	officer := &models.User{
		Name:        input.Name,
		Username:    input.Username,
		Email:       input.Email,
		Password:    hashed,
		Phone:       input.Phone,
		Role:        domain.RoleOfficer,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		IsAvailable: true,
	}
	if err := s.userRepo.Create(ctx, officer); err != nil {
		return nil, err
	}

	return officer.ToResponse(), nil
}

// List returns all officers with their availability and location
func (s *OfficerService) List(ctx context.Context) ([]models.User, error) {
	return s.officerRepo.ListOfficers(ctx)
}

// Get returns a single officer by ID
func (s *OfficerService) Get(ctx context.Context, id uint) (*models.User, error) {
	officer, err := s.officerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOfficerNotFound
		}
		return nil, err
	}
	return officer, nil
}

// SetAvailability flips an officer's availability flag
func (s *OfficerService) SetAvailability(ctx context.Context, officerID uint, available bool) error {
	if err := s.officerRepo.SetAvailability(ctx, officerID, available); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrOfficerNotFound
		}
		return err
	}
	return nil
}

// UpdateLocation records an officer's current coordinates
func (s *OfficerService) UpdateLocation(ctx context.Context, officerID uint, input *UpdateLocationInput) error {
	if err := s.officerRepo.UpdateLocation(ctx, officerID, input.Latitude, input.Longitude); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrOfficerNotFound
		}
		return err
	}
	return nil
}
