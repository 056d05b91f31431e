package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Auth & Directory Tables
// ============================================================

// User represents the users table. Citizens, field officers and admins all
// live here and are told apart by Role, as in the original deployment. The
// officer directory only ever looks at rows with role OFFICER.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:120;not null" json:"name"`
	Username    string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email       string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone       string    `gorm:"size:30" json:"phone"`
	Password    string    `gorm:"size:255;not null" json:"-"`
	Role        string    `gorm:"size:20;default:'USER';index" json:"role"`
	Latitude    *float64  `gorm:"type:decimal(10,7)" json:"latitude"`
	Longitude   *float64  `gorm:"type:decimal(10,7)" json:"longitude"`
	IsAvailable bool      `gorm:"default:true;index" json:"is_available"`
	DeviceToken *string   `gorm:"size:255" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// HasLocation reports whether the user has registered coordinates.
func (u *User) HasLocation() bool {
	return u.Latitude != nil && u.Longitude != nil
}

// UserResponse DTO
type UserResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Role        string    `json:"role"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Username:    u.Username,
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        u.Role,
		Latitude:    u.Latitude,
		Longitude:   u.Longitude,
		IsAvailable: u.IsAvailable,
		CreatedAt:   u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Complaint Tables
// ============================================================

// Complaint represents the complaints table. RefID is the short code shown to
// reporters; AssignedOfficerID is a plain reference into users, nullable while
// the complaint is unassigned. Complaints are never deleted.
type Complaint struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	RefID             string    `gorm:"size:12;uniqueIndex;not null" json:"ref_id"`
	ReporterName      string    `gorm:"size:100" json:"reporter_name"`
	Email             string    `gorm:"size:100;index" json:"email"`
	PhoneNumber       string    `gorm:"size:15" json:"phone_number"`
	IncidentType      string    `gorm:"size:100" json:"incident_type"`
	Description       string    `gorm:"type:text;not null" json:"description"`
	Location          string    `gorm:"size:200" json:"location"`
	Latitude          *float64  `gorm:"type:decimal(10,7)" json:"latitude"`
	Longitude         *float64  `gorm:"type:decimal(10,7)" json:"longitude"`
	MapsLink          string    `gorm:"size:300" json:"maps_link"`
	PhotoPath         *string   `gorm:"size:300" json:"photo_path"`
	Status            string    `gorm:"size:50;default:'New';index" json:"status"`
	AssignedOfficerID *uint     `gorm:"index" json:"assigned_officer_id"`
	AssignedOfficer   *User     `gorm:"foreignKey:AssignedOfficerID" json:"assigned_officer,omitempty"`
	CreatedAt         time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Complaint) TableName() string {
	return "complaints"
}

// ComplaintResponse DTO (list/summary shape)
type ComplaintResponse struct {
	ID              uint      `json:"id"`
	RefID           string    `json:"ref_id"`
	Status          string    `json:"status"`
	IncidentType    string    `json:"incident_type,omitempty"`
	Location        string    `json:"location,omitempty"`
	AssignedOfficer *uint     `json:"assigned_officer"`
	CreatedAt       time.Time `json:"created_at"`
}

func (c *Complaint) ToResponse() *ComplaintResponse {
	return &ComplaintResponse{
		ID:              c.ID,
		RefID:           c.RefID,
		Status:          c.Status,
		IncidentType:    c.IncidentType,
		Location:        c.Location,
		AssignedOfficer: c.AssignedOfficerID,
		CreatedAt:       c.CreatedAt,
	}
}

// ComplaintHistory represents the complaint_history table: an append-only
// audit log of status changes. OldStatus is null only for the creation entry.
type ComplaintHistory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ComplaintID uint      `gorm:"index;not null" json:"complaint_id"`
	OldStatus   *string   `gorm:"size:50" json:"old_status"`
	NewStatus   string    `gorm:"size:50;not null" json:"new_status"`
	ChangedBy   string    `gorm:"size:120;not null" json:"changed_by"`
	Timestamp   time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
	Complaint   Complaint `gorm:"foreignKey:ComplaintID" json:"-"`
}

func (ComplaintHistory) TableName() string {
	return "complaint_history"
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Complaint{},
		&ComplaintHistory{},
	)
}
