package repositories

import (
	"context"

	"github.com/harshdark/Rapid-Rescue/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// OfficerRepository is the officer directory: user rows with role OFFICER.
// WithTx returns a view of the repository bound to an open transaction so
// the engines can apply directory and store mutations as one atomic unit.
type OfficerRepository interface {
	WithTx(tx *gorm.DB) OfficerRepository
	GetByID(ctx context.Context, id uint) (*models.User, error)
	ListOfficers(ctx context.Context) ([]models.User, error)
	// ListAvailable returns available officers in ascending id order; the
	// stable order is what makes equal-distance tie-breaks deterministic.
	ListAvailable(ctx context.Context) ([]models.User, error)
	// ClaimAvailable atomically flips is_available from true to false and
	// reports whether this call won the claim.
	ClaimAvailable(ctx context.Context, id uint) (bool, error)
	// Release sets is_available back to true. Idempotent.
	Release(ctx context.Context, id uint) error
	SetAvailability(ctx context.Context, id uint, available bool) error
	UpdateLocation(ctx context.Context, id uint, lat, lon float64) error
}

// ComplaintRepository owns complaint records and their history log.
type ComplaintRepository interface {
	WithTx(tx *gorm.DB) ComplaintRepository
	Create(ctx context.Context, complaint *models.Complaint) error
	GetByID(ctx context.Context, id uint) (*models.Complaint, error)
	GetByRefID(ctx context.Context, refID string) (*models.Complaint, error)
	ListByEmail(ctx context.Context, email string) ([]models.Complaint, error)
	ListByAssignedOfficer(ctx context.Context, officerID uint) ([]models.Complaint, error)
	SearchByRef(ctx context.Context, refSubstring string, offset, limit int) ([]models.Complaint, int64, error)
	ListUnassigned(ctx context.Context) ([]models.Complaint, error)
	// SetAssignment sets the assignee and moves status to Assigned, but only
	// while the complaint has no assignee yet; reports whether the write
	// happened. It does not touch officer availability; that belongs to the
	// officer directory and the two writes are combined by the engines
	// inside one transaction.
	SetAssignment(ctx context.Context, id uint, officerID uint) (bool, error)
	// UpdateStatusFrom atomically moves the status from oldStatus to
	// newStatus and reports whether this call won the swap. A false return
	// means a concurrent transition got there first and the caller must
	// re-read before retrying.
	UpdateStatusFrom(ctx context.Context, id uint, oldStatus, newStatus string) (bool, error)
	AppendHistory(ctx context.Context, entry *models.ComplaintHistory) error
	ListHistory(ctx context.Context, complaintID uint) ([]models.ComplaintHistory, error)
}

// UserRepository defines user account operations (auth side)
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SetDeviceToken(ctx context.Context, id uint, token string) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}
