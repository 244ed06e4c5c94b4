package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles. A manager owns zero or more employees whose ManagerID equals
// the manager's EmployeeID; a manager never carries a ManagerID of its own.
const (
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FullName     string    `gorm:"not null" json:"full_name"`
	Role         string    `gorm:"not null" json:"role"`
	EmployeeID   string    `gorm:"uniqueIndex;not null" json:"employee_id"`
	Department   string    `json:"department,omitempty"`
	ManagerID    *string   `json:"manager_id,omitempty"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsManager reports whether the user holds the manager role.
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}
