package store

import (
	"time"

	"gorm.io/gorm"
)

// Table records for the gorm binding. Identifiers are opaque strings assigned
// by the binding itself (UUIDs), matching the hosted data service which also
// assigns its own IDs.

// JobRecord is the jobs table schema.
type JobRecord struct {
	ID             string     `gorm:"primaryKey;size:64" json:"id"`
	Title          string     `gorm:"size:255;not null" json:"title"`
	Company        string     `gorm:"size:255" json:"company"`
	Location       string     `gorm:"size:255" json:"location"`
	Description    string     `gorm:"type:text" json:"description"`
	SalaryMin      int        `gorm:"column:salary_min" json:"salary_min"`
	SalaryMax      int        `gorm:"column:salary_max" json:"salary_max"`
	JobType        string     `gorm:"column:job_type;size:32" json:"job_type"`
	RemoteFriendly bool       `gorm:"column:remote_friendly" json:"remote_friendly"`
	IsActive       bool       `gorm:"column:is_active;index" json:"is_active"`
	ExpiresAt      *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (JobRecord) TableName() string { return "jobs" }

// UserRecord is the users table schema.
type UserRecord struct {
	ID               string     `gorm:"primaryKey;size:64" json:"id"`
	Name             string     `gorm:"size:255" json:"name"`
	Email            string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash     string     `gorm:"column:password_hash;size:255" json:"password_hash"`
	SubscriptionPlan string     `gorm:"column:subscription_plan;size:32" json:"subscription_plan"`
	LastLogin        *time.Time `gorm:"column:last_login" json:"last_login,omitempty"`
	CreatedAt        time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (UserRecord) TableName() string { return "users" }

// ApplicationRecord is the applications table schema.
type ApplicationRecord struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	UserID      string    `gorm:"column:user_id;size:64;index;uniqueIndex:idx_applications_user_job" json:"user_id"`
	JobID       string    `gorm:"column:job_id;size:64;index;uniqueIndex:idx_applications_user_job" json:"job_id"`
	CoverLetter string    `gorm:"column:cover_letter;type:text" json:"cover_letter"`
	Status      string    `gorm:"size:32" json:"status"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (ApplicationRecord) TableName() string { return "applications" }

// AutoMigrate creates the tables used by the gorm binding.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&JobRecord{}, &UserRecord{}, &ApplicationRecord{})
}
