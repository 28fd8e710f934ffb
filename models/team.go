// models/team.go
package models

import "time"

type Team struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"not null;size:100" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	OwnerID     uint         `gorm:"not null;index" json:"owner"`
	Owner       *User        `gorm:"foreignKey:OwnerID" json:"ownerInfo,omitempty"`
	Members     []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (Team) TableName() string {
	return "teams"
}
