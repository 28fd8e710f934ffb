// models/project.go
package models

import "time"

// Project key is 2-5 uppercase letters, unique within its team.
// The compound unique index on (team_id, key) is the arbiter for
// concurrent creations with colliding names.
type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;size:100" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Key         string    `gorm:"not null;size:10;uniqueIndex:idx_projects_team_key" json:"key"`
	TeamID      uint      `gorm:"not null;uniqueIndex:idx_projects_team_key;index" json:"team"`
	Team        *Team     `gorm:"foreignKey:TeamID" json:"teamInfo,omitempty"`
	CreatedByID uint      `gorm:"not null" json:"createdBy"`
	CreatedBy   *User     `gorm:"foreignKey:CreatedByID" json:"createdByInfo,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Project) TableName() string {
	return "projects"
}
