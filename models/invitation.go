// models/invitation.go
package models

import "time"

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusRejected InviteStatus = "rejected"
)

// Invitation is terminal once accepted or rejected; re-inviting
// requires a new record. A partial unique index on (email, team_id)
// where status = 'pending' prevents duplicate pending invites.
type Invitation struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Email     string       `gorm:"not null;index" json:"email"`
	TeamID    uint         `gorm:"not null;index" json:"team"`
	Team      *Team        `gorm:"foreignKey:TeamID" json:"teamInfo,omitempty"`
	InviterID uint         `gorm:"not null" json:"inviter"`
	Inviter   *User        `gorm:"foreignKey:InviterID" json:"inviterInfo,omitempty"`
	Role      TeamRole     `gorm:"not null;default:'member'" json:"role"`
	Status    InviteStatus `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (Invitation) TableName() string {
	return "invitations"
}
