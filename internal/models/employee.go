package models

import "time"

// Employee is both a staff record and the login identity.
type Employee struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	FirstName    string    `gorm:"type:varchar(150);not null" json:"first_name"`
	LastName     string    `gorm:"type:varchar(150);not null" json:"last_name"`
	PositionID   uint64    `gorm:"not null;index" json:"position_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Position    Position         `gorm:"foreignKey:PositionID;constraint:OnDelete:RESTRICT" json:"position,omitempty"`
	Assignments []TaskAssignment `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"-"`
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}
