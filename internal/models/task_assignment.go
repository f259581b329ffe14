package models

import "time"

// TaskAssignment is one membership edge between an Employee and a Task.
// The composite primary key keeps the relation a set.
type TaskAssignment struct {
	TaskID     uint64    `gorm:"primarykey;autoIncrement:false" json:"task_id"`
	EmployeeID uint64    `gorm:"primarykey;autoIncrement:false;index" json:"employee_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Task     Task     `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"task,omitempty"`
	Employee Employee `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"employee,omitempty"`
}
