// models/column.go
package models

import "time"

// Column is an ordered bucket on a project board. Order is ascending
// display order within the project; duplicates are tolerated and
// broken deterministically by id.
type Column struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:100" json:"name"`
	Color     string    `gorm:"size:20;default:'#3b82f6'" json:"color"`
	ProjectID uint      `gorm:"not null;index" json:"project"`
	Project   *Project  `gorm:"foreignKey:ProjectID" json:"-"`
	Order     int       `gorm:"not null;default:0" json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Column) TableName() string {
	return "columns"
}
