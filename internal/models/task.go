package models

import (
	"time"
)

type Priority string

const (
	PriorityUrgent  Priority = "UR"
	PriorityHigh    Priority = "HI"
	PriorityMedium  Priority = "ME"
	PriorityLow     Priority = "LO"
	PriorityTrivial Priority = "TR"
)

// Priorities lists every valid priority code, most urgent first.
var Priorities = []Priority{
	PriorityUrgent,
	PriorityHigh,
	PriorityMedium,
	PriorityLow,
	PriorityTrivial,
}

var priorityLabels = map[Priority]string{
	PriorityUrgent:  "Urgent",
	PriorityHigh:    "High",
	PriorityMedium:  "Medium",
	PriorityLow:     "Low",
	PriorityTrivial: "Trivial",
}

// Valid reports whether p is one of the enumerated codes.
func (p Priority) Valid() bool {
	_, ok := priorityLabels[p]
	return ok
}

// Label returns the human readable name, or "" for an unknown code.
func (p Priority) Label() string {
	return priorityLabels[p]
}

type Task struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Deadline    time.Time `gorm:"type:date;not null;index" json:"deadline"`
	IsCompleted bool      `gorm:"not null;default:false;index" json:"is_completed"`
	Priority    Priority  `gorm:"type:varchar(10);not null" json:"priority"`
	TaskTypeID  uint64    `gorm:"not null;index" json:"task_type_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	TaskType    TaskType         `gorm:"foreignKey:TaskTypeID;constraint:OnDelete:CASCADE" json:"task_type,omitempty"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"assignments,omitempty"`
}
