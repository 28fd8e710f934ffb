// models/task.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// StringList stores a slice of strings as a JSON text column so the
// same model works on Postgres and SQLite.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported type for StringList")
}

type Task struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"not null;size:200" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	ProjectID   uint         `gorm:"not null;index" json:"project"`
	Project     *Project     `gorm:"foreignKey:ProjectID" json:"-"`
	ColumnID    uint         `gorm:"not null;index" json:"column"`
	Column      *Column      `gorm:"foreignKey:ColumnID" json:"-"`
	AssigneeID  *uint        `json:"assignee"`
	Assignee    *User        `gorm:"foreignKey:AssigneeID" json:"assigneeInfo,omitempty"`
	ReporterID  uint         `gorm:"not null" json:"reporter"`
	Reporter    *User        `gorm:"foreignKey:ReporterID" json:"reporterInfo,omitempty"`
	Priority    TaskPriority `gorm:"not null;default:'medium'" json:"priority"`
	Order       int          `gorm:"not null;default:0" json:"order"`
	Labels      StringList   `gorm:"type:text" json:"labels"`
	DueDate     *time.Time   `json:"dueDate"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (Task) TableName() string {
	return "tasks"
}
